package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/gemini"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/geoip"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/nominatim"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/openmeteo"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/term"
	"github.com/CodeEliott/fragranceforecast/internal/app"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
	"github.com/CodeEliott/fragranceforecast/internal/shared"
)

// One-shot client: running the binary is the trigger; progress and errors go
// to stderr, the result block to stdout.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	advisor, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize advisor client")
	}

	var locator domain.Locator = geoip.New(cfg.GeoIPBase, cfg.HTTPTimeout)
	if lat, lon, ok := cfg.FixedCoordinates(); ok {
		locator = geoip.Static{Coords: domain.Coordinates{Lat: lat, Lon: lon}}
	}

	flow := app.NewFlow(
		locator,
		openmeteo.New(cfg.OpenMeteoBase, cfg.HTTPTimeout),
		nominatim.New(cfg.NominatimBase, cfg.HTTPTimeout),
		advisor,
	)

	ui := term.NewPresenter(os.Stdout, os.Stderr)
	if _, err := flow.Run(ctx, ui); err != nil {
		// the presenter already rendered the user-facing message
		os.Exit(1)
	}
}
