package shared

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string        `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string        `env:"METRICS_ADDR" envDefault:""`
	HTTPTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"20s"`

	OpenMeteoBase string `env:"OPENMETEO_BASE_URL" envDefault:"https://api.open-meteo.com"`
	NominatimBase string `env:"NOMINATIM_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeoIPBase     string `env:"GEOIP_BASE_URL" envDefault:"http://ip-api.com"`

	GeminiBase  string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	// The credential is injected, never embedded in source.
	GeminiKey string `env:"GEMINI_API_KEY"`

	// Optional fixed coordinates; when both are set the IP locator is skipped.
	Latitude  *float64 `env:"FIXED_LAT"`
	Longitude *float64 `env:"FIXED_LON"`
}

func Load() Config {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatal().Err(err).Msg("parsing environment failed")
	}
	if cfg.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return cfg
}

// FixedCoordinates reports the configured override, if both halves are set.
func (c Config) FixedCoordinates() (lat, lon float64, ok bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return 0, 0, false
	}
	return *c.Latitude, *c.Longitude, true
}
