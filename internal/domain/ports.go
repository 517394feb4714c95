package domain

import "context"

// Locator obtains the current coordinates. Implementations classify
// failures with ErrGeolocationUnsupported / ErrGeolocationDenied so the flow
// can show distinct messages.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// WeatherProvider fetches and normalizes current conditions for a fix.
type WeatherProvider interface {
	FetchCurrent(ctx context.Context, c Coordinates) (WeatherReading, error)
}

// Geocoder resolves a display city name for a fix. Errors are absorbed by
// the flow, which substitutes FallbackPlaceName.
type Geocoder interface {
	ResolveCityName(ctx context.Context, c Coordinates) (string, error)
}

// FragranceAdvisor turns a weather reading into a recommendation via the
// generative text service.
type FragranceAdvisor interface {
	Recommend(ctx context.Context, w WeatherReading) (FragranceRecommendation, error)
}

// Presenter is the UI surface: exactly one of loading, error, or result is
// shown at a time.
type Presenter interface {
	Loading(status string)
	Error(msg string)
	Result(r FlowResult)
}
