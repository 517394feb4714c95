package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Client fetches current conditions from an Open-Meteo compatible endpoint.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// FetchCurrent issues a single GET for current conditions. Any non-2xx
// status is fatal to the flow; there is no retry.
func (c *Client) FetchCurrent(ctx context.Context, coords domain.Coordinates) (domain.WeatherReading, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherReading{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fragranceforecast/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("openmeteo", "forecast", 0, time.Since(start))
		if ctx.Err() != nil {
			return domain.WeatherReading{}, ctx.Err()
		}
		return domain.WeatherReading{}, fmt.Errorf("%w: %v", domain.ErrWeatherFetch, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("openmeteo", "forecast", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.WeatherReading{}, fmt.Errorf("%w: status %d", domain.ErrWeatherFetch, resp.StatusCode)
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("%w: decode: %v", domain.ErrWeatherFetch, err)
	}

	return domain.NewWeatherReading(out.CurrentWeather.Temperature, out.CurrentWeather.WeatherCode), nil
}
