package weather

import "testing"

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "晴"},
		{2, "多云"},
		{3, "阴"},
		{45, "雾"},
		{61, "小雨"},
		{63, "中雨"},
		{65, "大雨"},
		{75, "大雪"},
		{95, "雷阵雨"},
		{99, "强雷阵雨伴冰雹"},
		{42, "未知"},
		{-1, "未知"},
	}
	for _, tt := range tests {
		if got := DescribeWeatherCode(tt.code); got != tt.want {
			t.Errorf("DescribeWeatherCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "北风"},
		{11.24, "北风"},
		{11.3, "东北偏北风"},
		{22.5, "东北偏北风"},
		{45, "东北风"},
		{90, "东风"},
		{135, "东南风"},
		{180, "南风"},
		{225, "西南风"},
		{270, "西风"},
		{315, "西北风"},
		{348.8, "北风"},
		{360, "北风"},
		{-90, "西风"},
		{450, "东风"},
	}
	for _, tt := range tests {
		if got := CompassDirection(tt.degrees); got != tt.want {
			t.Errorf("CompassDirection(%v) = %q, want %q", tt.degrees, got, tt.want)
		}
	}
}

func TestBeaufortScale(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{0, "0级"},
		{0.2, "0级"},
		{0.3, "1级"},
		{1.6, "2级"},
		{5.4, "3级"},
		{5.5, "4级"},
		{10.8, "6级"},
		{17.2, "8级"},
		{28.5, "11级"},
		{32.7, "12级"},
		{40, "12级"},
	}
	for _, tt := range tests {
		if got := BeaufortScale(tt.speed); got != tt.want {
			t.Errorf("BeaufortScale(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		celsius float64
		want    string
	}{
		{0, "0°"},
		{3.4, "3°"},
		{3.5, "4°"},
		{-2.4, "-2°"},
		{-2.5, "-3°"},
	}
	for _, tt := range tests {
		if got := FormatTemperature(tt.celsius); got != tt.want {
			t.Errorf("FormatTemperature(%v) = %q, want %q", tt.celsius, got, tt.want)
		}
	}
}

func TestFormatPrecipitation(t *testing.T) {
	tests := []struct {
		mm   float64
		want string
	}{
		{0, "0.0mm"},
		{0.4, "0.4mm"},
		{0.95, "0.9mm"},
		{1, "1mm"},
		{12.6, "13mm"},
	}
	for _, tt := range tests {
		if got := FormatPrecipitation(tt.mm); got != tt.want {
			t.Errorf("FormatPrecipitation(%v) = %q, want %q", tt.mm, got, tt.want)
		}
	}
}

func TestFormatVisibility(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{500, "500m"},
		{1000, "1000m"},
		{1500, "2km"},
		{24000, "24km"},
	}
	for _, tt := range tests {
		if got := FormatVisibility(tt.meters); got != tt.want {
			t.Errorf("FormatVisibility(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}
