package domain

import "errors"

var (
	ErrGeolocationUnsupported = errors.New("geolocation is not available on this host")
	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrWeatherFetch           = errors.New("weather fetch failed")
	ErrInvalidAIResponse      = errors.New("invalid AI response structure")
	ErrFlowBusy               = errors.New("a flow is already running")
)
