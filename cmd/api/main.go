package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/gemini"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/geoip"
	server "github.com/CodeEliott/fragranceforecast/internal/adapters/http_server"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/nominatim"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/adapters/openmeteo"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
	"github.com/CodeEliott/fragranceforecast/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	advisor, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize advisor client")
	}

	var locator domain.Locator = geoip.New(cfg.GeoIPBase, cfg.HTTPTimeout)
	if lat, lon, ok := cfg.FixedCoordinates(); ok {
		locator = geoip.Static{Coords: domain.Coordinates{Lat: lat, Lon: lon}}
	}

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Locator: locator,
		Weather: openmeteo.New(cfg.OpenMeteoBase, cfg.HTTPTimeout),
		Geo:     nominatim.New(cfg.NominatimBase, cfg.HTTPTimeout),
		Advisor: advisor,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
