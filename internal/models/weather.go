package models

// WeatherData is a normalized current-weather reading.
// Fields the upstream omits stay nil and are rendered as null.
type WeatherData struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Description *string  `json:"description"`
}
