package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Locator resolves the host's coordinates from its public IP via an
// ip-api style endpoint. Single shot, no retry; a failure ends the flow.
type Locator struct {
	base string
	hc   *http.Client
}

// New returns a Locator, or nil when no endpoint is configured. A nil
// Locator stands in for a host without the geolocation capability.
func New(base string, timeout time.Duration) *Locator {
	if base == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Locator{
		base: base,
		hc:   &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *Locator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if l == nil {
		return domain.Coordinates{}, domain.ErrGeolocationUnsupported
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base+"/json", nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("geoip", "lookup", 0, time.Since(start))
		if ctx.Err() != nil {
			return domain.Coordinates{}, ctx.Err()
		}
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("geoip", "lookup", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		// provider refusing service is the closest analog to a permission denial
		return domain.Coordinates{}, domain.ErrGeolocationDenied
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup: status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup: decode: %w", err)
	}
	if out.Status != "" && out.Status != "success" {
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup failed: %s", out.Message)
	}

	return domain.Coordinates{Lat: out.Lat, Lon: out.Lon}, nil
}

// Static is a Locator backed by configured coordinates, used when the
// deployment pins a fixed position instead of probing the network.
type Static struct {
	Coords domain.Coordinates
}

func (s Static) Locate(ctx context.Context) (domain.Coordinates, error) {
	return s.Coords, nil
}
