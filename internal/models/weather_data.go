package models

// Coordinates is a latitude/longitude pair as reported by OpenWeatherMap.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainReading struct {
	Temp float64 `json:"temp"`
}

// WeatherRecord is the subset of the current-weather response the service reads.
// Objects are pointers so an absent field is distinguishable from a zero value.
type WeatherRecord struct {
	Coord   *Coordinates `json:"coord"`
	Main    *MainReading `json:"main"`
	Weather []Condition  `json:"weather"`
	Name    string       `json:"name"`
}

type AirQuality struct {
	AQI int `json:"aqi"`
}

type Components struct {
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
}

type PollutionReading struct {
	Main       *AirQuality `json:"main"`
	Components *Components `json:"components"`
}

// PollutionRecord is the subset of the air-pollution response the service reads.
type PollutionRecord struct {
	List []PollutionReading `json:"list"`
}

// AirWeather is the merged payload returned to the front-end.
type AirWeather struct {
	City    string  `json:"city"`
	Temp    float64 `json:"temp"`
	Desc    string  `json:"desc"`
	IconURL string  `json:"iconUrl"`
	AQI     int     `json:"aqi"`
	PM25    float64 `json:"pm25"`
	PM10    float64 `json:"pm10"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
