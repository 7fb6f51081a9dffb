package external

// CurrentWeatherResponse is the subset of OpenWeatherMap /data/2.5/weather used by the bot
type CurrentWeatherResponse struct {
	Name       string               `json:"name"`
	Coord      Coordinates          `json:"coord"`
	Weather    []WeatherDescription `json:"weather"`
	Main       MainReadings         `json:"main"`
	Visibility *int                 `json:"visibility"`
	Rain       *Precipitation       `json:"rain"`
	Sys        SunSystem            `json:"sys"`
	// Timezone is the shift in seconds from UTC
	Timezone int `json:"timezone"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type WeatherDescription struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type MainReadings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

// Precipitation holds accumulated rain in millimetres; either window may be absent.
type Precipitation struct {
	OneHour    *float64 `json:"1h"`
	ThreeHours *float64 `json:"3h"`
}

type SunSystem struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// ForecastResponse is the subset of OpenWeatherMap /data/2.5/forecast (3-hour steps)
type ForecastResponse struct {
	Count int            `json:"cnt"`
	List  []ForecastItem `json:"list"`
	City  ForecastCity   `json:"city"`
}

type ForecastItem struct {
	DateTime int64                `json:"dt"`
	Main     MainReadings         `json:"main"`
	Weather  []WeatherDescription `json:"weather"`
}

type ForecastCity struct {
	Name     string      `json:"name"`
	Coord    Coordinates `json:"coord"`
	Timezone int         `json:"timezone"`
}

// APIErrorResponse is the provider error body. cod is a string or a number depending on the endpoint.
type APIErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
