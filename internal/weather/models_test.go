package weather

import "testing"

func TestHourlyAlignedLen(t *testing.T) {
	h := &Hourly{
		Time:          []string{"t0", "t1", "t2"},
		Temperature2M: []float64{1, 2, 3},
	}
	if got := h.AlignedLen(); got != 3 {
		t.Fatalf("AlignedLen() = %d, want 3", got)
	}

	// A provider-omitted series (nil) does not shorten the alignment, a
	// present-but-shorter one does.
	h.WeatherCode = []int{0, 1}
	if got := h.AlignedLen(); got != 2 {
		t.Fatalf("AlignedLen() with short weather codes = %d, want 2", got)
	}

	h.PrecipitationProbability = []float64{}
	if got := h.AlignedLen(); got != 0 {
		t.Fatalf("AlignedLen() with empty series = %d, want 0", got)
	}
}

func TestDailyAlignedLen(t *testing.T) {
	d := &Daily{
		Time:             []string{"d0", "d1", "d2", "d3"},
		Temperature2MMax: []float64{10, 11, 12, 13},
		Temperature2MMin: []float64{1, 2, 3},
		Sunrise:          []string{"06:00", "06:01", "06:02", "06:03"},
	}
	if got := d.AlignedLen(); got != 3 {
		t.Fatalf("AlignedLen() = %d, want 3", got)
	}
}

func TestStateLoaded(t *testing.T) {
	if (State{Status: StatusLoaded}).Loaded() {
		t.Error("loaded status without payload must not count as loaded")
	}
	if (State{Status: StatusFailed, Err: "x"}).Loaded() {
		t.Error("failed state must not count as loaded")
	}
	st := State{Status: StatusLoaded, Payload: &Payload{}}
	if !st.Loaded() {
		t.Error("loaded status with payload should count as loaded")
	}
}

func TestAlarmID(t *testing.T) {
	a := Alarm{Title: "暴雨蓝色预警", PublishTime: "2026-08-30 10:00"}
	if got := a.ID(); got != "2026-08-30 10:00|暴雨蓝色预警" {
		t.Fatalf("ID() = %q", got)
	}
}
