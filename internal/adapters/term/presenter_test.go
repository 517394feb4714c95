package term_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/term"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

func TestPresenter_ResultBlock(t *testing.T) {
	var out, msg bytes.Buffer
	p := term.NewPresenter(&out, &msg)

	p.Loading("Locating you...")
	p.Result(domain.FlowResult{
		City:    "London",
		Weather: domain.NewWeatherReading(12.3, 61),
		Fragrance: domain.FragranceRecommendation{
			Mood: "Cozy", Scents: "Amber & Vanilla", Reason: "Warm scents suit rain.",
		},
	})

	want := "Forecast for London\nSlight rain, 12°C\nRecommended: Amber & Vanilla\nMood: Cozy. Warm scents suit rain.\n"
	if out.String() != want {
		t.Fatalf("result block:\n%q\nwant:\n%q", out.String(), want)
	}
	if !strings.Contains(msg.String(), "Locating you...") {
		t.Fatalf("loading line missing: %q", msg.String())
	}
}

func TestPresenter_ErrorPanel(t *testing.T) {
	var out, msg bytes.Buffer
	p := term.NewPresenter(&out, &msg)

	p.Error("Could not fetch the current weather.")

	if out.Len() != 0 {
		t.Fatalf("results panel must stay empty on error, got %q", out.String())
	}
	if msg.String() != "Error: Could not fetch the current weather.\n" {
		t.Fatalf("error panel: %q", msg.String())
	}
}
