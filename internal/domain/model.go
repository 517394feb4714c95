package domain

import (
	"fmt"
	"math"
)

// FallbackPlaceName is rendered when reverse geocoding cannot resolve a city.
const FallbackPlaceName = "your location"

// Coordinates is a single geographic fix, produced once per flow run.
type Coordinates struct {
	Lat float64
	Lon float64
}

// WeatherReading is the normalized current-weather snapshot.
type WeatherReading struct {
	TemperatureC int // rounded to nearest integer
	Description  string
}

// NewWeatherReading rounds a raw temperature and maps the WMO code.
func NewWeatherReading(rawTempC float64, code int) WeatherReading {
	return WeatherReading{
		TemperatureC: int(math.Round(rawTempC)),
		Description:  DescribeWeatherCode(code),
	}
}

// FragranceRecommendation is the structured suggestion parsed from the
// generative service's JSON reply. All fields are free text.
type FragranceRecommendation struct {
	Mood       string `json:"mood"`
	Atmosphere string `json:"atmosphere"`
	Scents     string `json:"scents"`
	Reason     string `json:"reason"`
}

// FlowResult aggregates the three sub-results. It is only constructed once
// every field is populated; partial results are never rendered.
type FlowResult struct {
	City      string
	Weather   WeatherReading
	Fragrance FragranceRecommendation
}

func (r FlowResult) LocationLine() string {
	return "Forecast for " + r.City
}

func (r FlowResult) WeatherLine() string {
	return fmt.Sprintf("%s, %d°C", r.Weather.Description, r.Weather.TemperatureC)
}

func (r FlowResult) RecommendationLine() string {
	return r.Fragrance.Scents
}

func (r FlowResult) ReasonLine() string {
	return fmt.Sprintf("Mood: %s. %s", r.Fragrance.Mood, r.Fragrance.Reason)
}
