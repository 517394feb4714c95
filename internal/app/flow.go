package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Stage is the flow's user-visible state.
type Stage int32

const (
	StageIdle Stage = iota
	StageLocating
	StageFetching
	StageGenerating
	StageDone
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLocating:
		return "locating"
	case StageFetching:
		return "fetching"
	case StageGenerating:
		return "generating"
	case StageDone:
		return "done"
	case StageError:
		return "error"
	}
	return "unknown"
}

// status lines pushed to the presenter before each async operation begins.
var stageStatus = map[Stage]string{
	StageLocating:   "Locating you...",
	StageFetching:   "Fetching weather and place name...",
	StageGenerating: "Crafting your fragrance recommendation...",
}

// Flow orchestrates locate -> (weather || geocode) -> advise -> render.
// A single Flow runs at most one pass at a time; a concurrent Run returns
// domain.ErrFlowBusy, the analog of a disabled trigger control.
type Flow struct {
	locator domain.Locator
	weather domain.WeatherProvider
	geo     domain.Geocoder
	advisor domain.FragranceAdvisor

	busy  atomic.Bool
	stage atomic.Int32
}

func NewFlow(l domain.Locator, w domain.WeatherProvider, g domain.Geocoder, a domain.FragranceAdvisor) *Flow {
	return &Flow{locator: l, weather: w, geo: g, advisor: a}
}

// Stage reports the last observed state, for surfacing progress externally.
func (f *Flow) Stage() Stage { return Stage(f.stage.Load()) }

func (f *Flow) transition(ui domain.Presenter, s Stage) {
	f.stage.Store(int32(s))
	if msg, ok := stageStatus[s]; ok {
		ui.Loading(msg)
	}
}

// Run executes one complete pass. Every error from the locator, the weather
// provider, or the advisor is fatal and rendered on the error panel; geocode
// failures are absorbed and replaced with the fallback place name.
func (f *Flow) Run(ctx context.Context, ui domain.Presenter) (res domain.FlowResult, err error) {
	if !f.busy.CompareAndSwap(false, true) {
		observability.ObserveFlow("busy")
		return domain.FlowResult{}, domain.ErrFlowBusy
	}
	defer f.busy.Store(false)

	// flow boundary: anything unexpected becomes a generic error display
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("flow panicked")
			f.stage.Store(int32(StageError))
			ui.Error("Something went wrong. Please try again.")
			observability.ObserveFlow("error")
			err = fmt.Errorf("flow panic: %v", r)
		}
	}()

	f.transition(ui, StageLocating)
	coords, err := f.locator.Locate(ctx)
	if err != nil {
		return f.fail(ui, StageLocating, err)
	}

	f.transition(ui, StageFetching)
	var (
		reading domain.WeatherReading
		city    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, werr := f.weather.FetchCurrent(gctx, coords)
		if werr != nil {
			return werr
		}
		reading = r
		return nil
	})
	g.Go(func() error {
		name, gerr := f.geo.ResolveCityName(gctx, coords)
		if gerr != nil || name == "" {
			if gerr != nil {
				log.Warn().Err(gerr).Msg("reverse geocode failed, using fallback place name")
			}
			city = domain.FallbackPlaceName
			return nil
		}
		city = name
		return nil
	})
	if err := g.Wait(); err != nil {
		return f.fail(ui, StageFetching, err)
	}

	f.transition(ui, StageGenerating)
	rec, err := f.advisor.Recommend(ctx, reading)
	if err != nil {
		return f.fail(ui, StageGenerating, err)
	}

	res = domain.FlowResult{City: city, Weather: reading, Fragrance: rec}
	f.stage.Store(int32(StageDone))
	ui.Result(res)
	observability.ObserveFlow("done")
	return res, nil
}

func (f *Flow) fail(ui domain.Presenter, at Stage, cause error) (domain.FlowResult, error) {
	f.stage.Store(int32(StageError))
	ui.Error(UserMessage(at, cause))
	observability.ObserveFlow("error")
	return domain.FlowResult{}, cause
}

// UserMessage maps a fatal error to the text shown on the error panel.
// Permission denial gets its own wording, distinct from other location
// failures.
func UserMessage(at Stage, err error) string {
	switch at {
	case StageLocating:
		switch {
		case errors.Is(err, domain.ErrGeolocationUnsupported):
			return "Geolocation is not supported on this host."
		case errors.Is(err, domain.ErrGeolocationDenied):
			return "Location permission was denied. Allow location access and try again."
		default:
			return "Could not determine your location."
		}
	case StageFetching:
		return "Could not fetch the current weather."
	case StageGenerating:
		return "Fragrance recommendation failed: " + err.Error()
	}
	return "Something went wrong. Please try again."
}
