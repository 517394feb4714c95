package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/geoip"
	"github.com/CodeEliott/fragranceforecast/internal/app"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Handlers exposes the recommendation flow over HTTP. It holds the flow's
// ports rather than a prebuilt flow so a request may pin its own
// coordinates; the single-flight guard lives here, spanning all requests.
type Handlers struct {
	Locator domain.Locator
	Weather domain.WeatherProvider
	Geo     domain.Geocoder
	Advisor domain.FragranceAdvisor

	busy atomic.Bool
}

func (h *Handlers) acquire() bool { return h.busy.CompareAndSwap(false, true) }
func (h *Handlers) release()      { h.busy.Store(false) }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/recommendations", h.recommend)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

type recommendRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type recommendResponse struct {
	City    string `json:"city"`
	Weather struct {
		TemperatureC int    `json:"temperature_c"`
		Description  string `json:"description"`
	} `json:"weather"`
	Fragrance domain.FragranceRecommendation `json:"fragrance"`
	Lines     struct {
		Location       string `json:"location"`
		Weather        string `json:"weather"`
		Recommendation string `json:"recommendation"`
		Reason         string `json:"reason"`
	} `json:"lines"`
}

// jsonPresenter satisfies the flow's UI port; progress goes to the log and
// the terminal panels map onto the response body.
type jsonPresenter struct {
	res    *domain.FlowResult
	errMsg string
}

func (p *jsonPresenter) Loading(status string)      { log.Debug().Str("status", status).Msg("flow") }
func (p *jsonPresenter) Error(msg string)           { p.errMsg = msg }
func (p *jsonPresenter) Result(r domain.FlowResult) { *p.res = r }

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON")
		return
	}
	if (body.Latitude == nil) != (body.Longitude == nil) {
		writeProblem(w, http.StatusBadRequest, "Invalid Coordinates", "latitude and longitude must be provided together")
		return
	}

	loc := h.Locator
	if body.Latitude != nil {
		loc = geoip.Static{Coords: domain.Coordinates{Lat: *body.Latitude, Lon: *body.Longitude}}
	}

	var res domain.FlowResult
	ui := &jsonPresenter{res: &res}
	flow := app.NewFlow(loc, h.Weather, h.Geo, h.Advisor)
	if !h.acquire() {
		writeProblem(w, http.StatusConflict, "Flow In Progress", "a recommendation flow is already running")
		return
	}
	_, err := flow.Run(r.Context(), ui)
	h.release()

	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrGeolocationUnsupported):
			status = http.StatusNotImplemented
		case errors.Is(err, domain.ErrGeolocationDenied):
			status = http.StatusForbidden
		}
		writeProblem(w, status, "Flow Failed", ui.errMsg)
		return
	}

	var out recommendResponse
	out.City = res.City
	out.Weather.TemperatureC = res.Weather.TemperatureC
	out.Weather.Description = res.Weather.Description
	out.Fragrance = res.Fragrance
	out.Lines.Location = res.LocationLine()
	out.Lines.Weather = res.WeatherLine()
	out.Lines.Recommendation = res.RecommendationLine()
	out.Lines.Reason = res.ReasonLine()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write recommendation body")
	}
}
