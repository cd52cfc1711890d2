package openmeteo

// Open-Meteo API response structures. Pointer fields tolerate the provider
// omitting any subset of the requested variables.

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

type forecastResponse struct {
	Current *struct {
		Time               string   `json:"time"`
		Temperature2M      *float64 `json:"temperature_2m"`
		RelativeHumidity2M *float64 `json:"relative_humidity_2m"`
		Precipitation      *float64 `json:"precipitation"`
		WeatherCode        *int     `json:"weather_code"`
		SurfacePressure    *float64 `json:"surface_pressure"`
		WindSpeed10M       *float64 `json:"wind_speed_10m"`
		WindDirection10M   *float64 `json:"wind_direction_10m"`
		WindGusts10M       *float64 `json:"wind_gusts_10m"`
	} `json:"current"`
	Hourly *struct {
		Time                     []string  `json:"time"`
		Temperature2M            []float64 `json:"temperature_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily *struct {
		Time             []string  `json:"time"`
		Temperature2MMax []float64 `json:"temperature_2m_max"`
		Temperature2MMin []float64 `json:"temperature_2m_min"`
		WeatherCode      []int     `json:"weather_code"`
		Sunrise          []string  `json:"sunrise"`
		Sunset           []string  `json:"sunset"`
		UVIndexMax       []float64 `json:"uv_index_max"`
	} `json:"daily"`
}
