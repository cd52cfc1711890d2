package weathercn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/weather"
)

const cityListBody = `weacity({"101010100":{"n":"北京","x":"116.407","y":"39.904"},"101020100":{"n":"上海","x":"121.473","y":"31.230"}})`

const dingzhiBody = `var cityDZ101010100 ={"weatherinfo":{"cityname":"北京","fctime":"202608300800","temp":"31℃","tempn":"22℃","weather":"多云","wd":"东南风","ws":"3级"}};var alarmDZ101010100 ={"w":[{"w5":"北京市","w7":"暴雨","w8":"2026-08-30 07:30","w9":"预计未来6小时有强降雨","w13":"暴雨蓝色预警"}]}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		CityListURL: server.URL + "/city.json",
		WeatherURL:  server.URL + "/dingzhi/",
	})
}

func testHandler(cityListCalls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/city.json":
			if cityListCalls != nil {
				cityListCalls.Add(1)
			}
			_, _ = w.Write([]byte(cityListBody))
		case "/dingzhi/101010100.html":
			_, _ = w.Write([]byte(dingzhiBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestFetch_ParsesConditionsAndAlarms(t *testing.T) {
	client := newTestClient(t, testHandler(nil))

	payload, err := client.Fetch(context.Background(), place.FromName("北京"))
	require.NoError(t, err)

	info := payload.WeatherInfo
	require.NotNil(t, info)
	assert.Equal(t, "北京", info.City)
	assert.Equal(t, "2026-08-30 08:00:00", info.UpdateTime)
	assert.Equal(t, "31℃", info.TempHigh)
	assert.Equal(t, "22℃", info.TempLow)
	assert.Equal(t, "多云", info.Weather)
	assert.Equal(t, "东南风", info.WindDirection)
	assert.Equal(t, "3级", info.WindScale)

	require.Len(t, payload.Alarms, 1)
	alarm := payload.Alarms[0]
	assert.Equal(t, "暴雨蓝色预警", alarm.Title)
	assert.Equal(t, "北京市 暴雨预警", alarm.Type)
	assert.Equal(t, "2026-08-30 07:30", alarm.PublishTime)
	assert.Equal(t, "预计未来6小时有强降雨", alarm.Details)
}

func TestFetch_CachesCityList(t *testing.T) {
	var cityListCalls atomic.Int32
	client := newTestClient(t, testHandler(&cityListCalls))

	ctx := context.Background()
	_, err := client.Fetch(ctx, place.FromName("北京"))
	require.NoError(t, err)
	_, err = client.Fetch(ctx, place.FromName("北京"))
	require.NoError(t, err)

	assert.Equal(t, int32(1), cityListCalls.Load(), "city list should be fetched once within the TTL")
}

func TestFetch_UnknownCity(t *testing.T) {
	client := newTestClient(t, testHandler(nil))

	_, err := client.Fetch(context.Background(), place.FromName("不存在的城市"))
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestFetch_EmptyName(t *testing.T) {
	client := newTestClient(t, testHandler(nil))

	_, err := client.Fetch(context.Background(), place.Place{})
	assert.ErrorIs(t, err, weather.ErrValidation)
}

func TestReformatFCTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"202608300800", "2026-08-30 08:00:00"},
		{"20260830", "20260830"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := reformatFCTime(tt.in); got != tt.want {
			t.Errorf("reformatFCTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDingzhi_WeatherFragmentOnly(t *testing.T) {
	payload, err := parseDingzhi(`var cityDZ ={"weatherinfo":{"cityname":"上海","fctime":"202608300800","temp":"30℃","tempn":"24℃","weather":"晴","wd":"东风","ws":"2级"}}`)
	require.NoError(t, err)
	require.NotNil(t, payload.WeatherInfo)
	assert.Equal(t, "上海", payload.WeatherInfo.City)
	assert.Empty(t, payload.Alarms)
}

func TestParseDingzhi_IncompleteAlarmSkipped(t *testing.T) {
	body := `var cityDZ ={"weatherinfo":{"cityname":"北京","fctime":"202608300800","temp":"31℃","tempn":"22℃","weather":"多云","wd":"东南风","ws":"3级"}};var alarmDZ ={"w":[{"w13":"仅有标题"},{"w5":"北京市","w7":"大风","w8":"2026-08-30 09:00","w9":"阵风可达8级","w13":"大风黄色预警"}]}`

	payload, err := parseDingzhi(body)
	require.NoError(t, err)
	require.Len(t, payload.Alarms, 1, "alarms missing required fields are dropped")
	assert.Equal(t, "大风黄色预警", payload.Alarms[0].Title)
}
