package presenter

import (
	"math"
	"strconv"
	"strings"

	"weather-bot/internal/domain/entity"
)

const clockLayout = "15:04"

// Catalog resolves message templates; *msg.Catalog satisfies it
type Catalog interface {
	GetMessage(key string, args ...interface{}) string
}

type WeatherPresenter struct {
	catalog Catalog
}

func NewWeatherPresenter(catalog Catalog) *WeatherPresenter {
	return &WeatherPresenter{catalog: catalog}
}

// Format renders the summary as the chat reply. Temperatures and visibility are
// rounded half to even; rain is shown as received, keeping a decimal place when
// the provider sent one.
func (p *WeatherPresenter) Format(summary *entity.WeatherSummary) string {
	current := summary.Current
	sun := summary.Sun
	forecast := summary.Forecast

	lines := []string{
		p.catalog.GetMessage("weather.summary.current", summary.Place, current.DetailedStatus),
		p.catalog.GetMessage("weather.summary.local-time", summary.LocalTime.Format(clockLayout)),
		p.catalog.GetMessage("weather.summary.temperature", round(current.TemperatureC), round(current.FeelsLikeC)),
		p.catalog.GetMessage("weather.summary.rain", formatRain(current)),
		p.catalog.GetMessage("weather.summary.visibility", round(current.VisibilityKM)),
		p.catalog.GetMessage("weather.summary.sun", sun.SunriseLocal.Format(clockLayout), sun.SunsetLocal.Format(clockLayout)),
		p.catalog.GetMessage("weather.summary.daylight", sun.Daylight.Hours, sun.Daylight.Minutes),
		p.catalog.GetMessage("weather.summary.tomorrow", forecast.DominantAdjective, round(forecast.TempMinC), round(forecast.TempMaxC)),
	}
	if summary.TimezoneApproximate {
		lines = append(lines, p.catalog.GetMessage("weather.summary.timezone-caveat"))
	}

	return strings.Join(lines, "\n\n")
}

func formatRain(current entity.CurrentConditions) string {
	text := strconv.FormatFloat(current.RainLast3hMM, 'f', -1, 64)
	if current.RainReported && !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func round(value float64) int {
	return int(math.RoundToEven(value))
}
