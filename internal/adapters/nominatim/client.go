package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Client resolves city names via a Nominatim-style reverse geocoder.
// The usage policy caps anonymous clients at one request per second, so the
// limiter is part of the client rather than a tuning knob.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(1), 1),
	}
}

type reverseResponse struct {
	Address struct {
		City string `json:"city"`
		Town string `json:"town"`
	} `json:"address"`
}

// ResolveCityName returns the city (or town) for the fix. Callers absorb
// failures and fall back to domain.FallbackPlaceName; nothing here is fatal
// to the flow.
func (c *Client) ResolveCityName(ctx context.Context, coords domain.Coordinates) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	// identifying UA is required by the provider's usage policy
	req.Header.Set("User-Agent", "fragranceforecast/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("nominatim", "reverse", 0, time.Since(start))
		return "", err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("nominatim", "reverse", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("reverse geocode: status %d", resp.StatusCode)
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("reverse geocode: decode: %w", err)
	}

	if out.Address.City != "" {
		return out.Address.City, nil
	}
	if out.Address.Town != "" {
		return out.Address.Town, nil
	}
	return "", fmt.Errorf("reverse geocode: no city or town in payload")
}
