package weather

import (
	"fmt"
	"math"
)

// weatherCodeText maps WMO interpretation codes to localized descriptions.
var weatherCodeText = map[int]string{
	0:  "晴",
	1:  "晴间多云",
	2:  "多云",
	3:  "阴",
	45: "雾",
	48: "冻雾",
	51: "毛毛雨",
	53: "毛毛雨",
	55: "毛毛雨",
	56: "冻毛毛雨",
	57: "冻毛毛雨",
	61: "小雨",
	63: "中雨",
	65: "大雨",
	66: "冻雨",
	67: "冻雨",
	71: "小雪",
	73: "中雪",
	75: "大雪",
	77: "雪粒",
	80: "小阵雨",
	81: "阵雨",
	82: "强阵雨",
	85: "小阵雪",
	86: "大阵雪",
	95: "雷阵雨",
	96: "雷阵雨伴冰雹",
	99: "强雷阵雨伴冰雹",
}

// DescribeWeatherCode returns the localized description for a WMO weather code.
func DescribeWeatherCode(code int) string {
	if text, ok := weatherCodeText[code]; ok {
		return text
	}
	return "未知"
}

// compassPoints lists the 16 compass points clockwise from north.
var compassPoints = [16]string{
	"北", "东北偏北", "东北", "东北偏东",
	"东", "东南偏东", "东南", "东南偏南",
	"南", "西南偏南", "西南", "西南偏西",
	"西", "西北偏西", "西北", "西北偏北",
}

// CompassDirection maps wind-origin degrees (0 = north, clockwise) to a
// 16-point compass description in 22.5° buckets, suffixed 风.
func CompassDirection(degrees float64) string {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/22.5)) % 16
	return compassPoints[idx] + "风"
}

// beaufortUpper holds the exclusive m/s upper bound of each Beaufort number.
// Speeds at or above the last bound are force 12.
var beaufortUpper = [12]float64{0.3, 1.6, 3.4, 5.5, 8.0, 10.8, 13.9, 17.2, 20.8, 24.5, 28.5, 32.7}

// BeaufortScale maps a wind speed in m/s to a Beaufort-number description.
func BeaufortScale(speedMS float64) string {
	for force, upper := range beaufortUpper {
		if speedMS < upper {
			return fmt.Sprintf("%d级", force)
		}
	}
	return "12级"
}

// FormatTemperature rounds to integer degrees.
func FormatTemperature(celsius float64) string {
	return fmt.Sprintf("%d°", int(math.Round(celsius)))
}

// FormatPrecipitation keeps one decimal below 1mm, integer millimetres above.
func FormatPrecipitation(mm float64) string {
	if mm < 1 {
		return fmt.Sprintf("%.1fmm", mm)
	}
	return fmt.Sprintf("%.0fmm", mm)
}

// FormatVisibility reports kilometres above 1000m, metres otherwise.
func FormatVisibility(meters float64) string {
	if meters > 1000 {
		return fmt.Sprintf("%.0fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fm", meters)
}
