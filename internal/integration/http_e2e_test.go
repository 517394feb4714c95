//go:build integration || !unit

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/gemini"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/geoip"
	server "github.com/CodeEliott/fragranceforecast/internal/adapters/http_server"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/nominatim"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/openmeteo"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// fake upstreams

func fakeWeather(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
}

func fakeNominatim(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
}

func fakeGemini(t *testing.T, inner string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": inner}}}},
			},
		})
	}))
}

func newAPI(t *testing.T, weatherURL, geoURL, aiURL string) http.Handler {
	t.Helper()
	advisor, err := gemini.New(aiURL, "gemini-1.5-flash", "test-key", 2*time.Second)
	if err != nil {
		t.Fatalf("advisor init: %v", err)
	}
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Locator: geoip.Static{Coords: domain.Coordinates{Lat: 51.5, Lon: -0.12}},
		Weather: openmeteo.New(weatherURL, 2*time.Second),
		Geo:     nominatim.New(geoURL, 2*time.Second),
		Advisor: advisor,
	})
	return srv.Mux()
}

func TestRecommendations_EndToEnd(t *testing.T) {
	weather := fakeWeather(t, `{"current_weather":{"temperature":12.3,"weathercode":61}}`, 0)
	defer weather.Close()
	geo := fakeNominatim(t, `{"address":{"city":"London"}}`, 0)
	defer geo.Close()
	ai := fakeGemini(t, `{"mood":"Cozy","atmosphere":"Rainy afternoon","scents":"Amber & Vanilla","reason":"Warm scents suit rain."}`)
	defer ai.Close()

	api := newAPI(t, weather.URL, geo.URL, ai.URL)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations",
		strings.NewReader(`{"latitude":51.5,"longitude":-0.12}`))
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		City  string `json:"city"`
		Lines struct {
			Location       string `json:"location"`
			Weather        string `json:"weather"`
			Recommendation string `json:"recommendation"`
			Reason         string `json:"reason"`
		} `json:"lines"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Lines.Location != "Forecast for London" {
		t.Errorf("location: %q", out.Lines.Location)
	}
	if out.Lines.Weather != "Slight rain, 12°C" {
		t.Errorf("weather: %q", out.Lines.Weather)
	}
	if out.Lines.Recommendation != "Amber & Vanilla" {
		t.Errorf("recommendation: %q", out.Lines.Recommendation)
	}
	if out.Lines.Reason != "Mood: Cozy. Warm scents suit rain." {
		t.Errorf("reason: %q", out.Lines.Reason)
	}
}

func TestRecommendations_GeocodeDownStillSucceeds(t *testing.T) {
	weather := fakeWeather(t, `{"current_weather":{"temperature":14.6,"weathercode":0}}`, 0)
	defer weather.Close()
	geo := fakeNominatim(t, "", http.StatusServiceUnavailable)
	defer geo.Close()
	ai := fakeGemini(t, `{"mood":"Bright","atmosphere":"Sunny","scents":"Citrus","reason":"Fresh notes for clear skies."}`)
	defer ai.Close()

	api := newAPI(t, weather.URL, geo.URL, ai.URL)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", nil)
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		City  string `json:"city"`
		Lines struct {
			Weather string `json:"weather"`
		} `json:"lines"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&out)
	if out.City != "your location" {
		t.Errorf("city: got %q, want your location", out.City)
	}
	if out.Lines.Weather != "Clear sky, 15°C" {
		t.Errorf("weather: %q", out.Lines.Weather)
	}
}

func TestRecommendations_WeatherDownFailsFlow(t *testing.T) {
	weather := fakeWeather(t, "", http.StatusBadGateway)
	defer weather.Close()
	geo := fakeNominatim(t, `{"address":{"city":"London"}}`, 0)
	defer geo.Close()
	ai := fakeGemini(t, `{}`)
	defer ai.Close()

	api := newAPI(t, weather.URL, geo.URL, ai.URL)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", nil)
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type: %q", ct)
	}
	var prob struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&prob)
	if !strings.Contains(prob.Detail, "weather") {
		t.Errorf("detail should mention weather: %q", prob.Detail)
	}
}

func TestRecommendations_MismatchedCoordinates(t *testing.T) {
	weather := fakeWeather(t, `{}`, 0)
	defer weather.Close()
	geo := fakeNominatim(t, `{}`, 0)
	defer geo.Close()
	ai := fakeGemini(t, `{}`)
	defer ai.Close()

	api := newAPI(t, weather.URL, geo.URL, ai.URL)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations",
		strings.NewReader(`{"latitude":51.5}`))
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	weather := fakeWeather(t, `{}`, 0)
	defer weather.Close()
	geo := fakeNominatim(t, `{}`, 0)
	defer geo.Close()
	ai := fakeGemini(t, `{}`)
	defer ai.Close()

	api := newAPI(t, weather.URL, geo.URL, ai.URL)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}
