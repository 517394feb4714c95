package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CodeEliott/fragranceforecast/internal/adapters/observability"
	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Client asks a generative language endpoint for a fragrance recommendation
// as structured JSON.
type Client struct {
	base  string
	model string
	key   string
	hc    *http.Client
}

func New(base, model, key string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base:  base,
		model: model,
		key:   key,
		hc:    &http.Client{Timeout: timeout},
	}, nil
}

// StatusError reports a non-success HTTP status from the AI endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("AI request failed with status %d", e.Code)
	}
	return fmt.Sprintf("AI request failed with status %d: %s", e.Code, e.Body)
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func buildPrompt(w domain.WeatherReading) string {
	return fmt.Sprintf(
		"The current weather is %q at %d°C. Recommend a fragrance that matches this weather. "+
			"Reply with a JSON object with exactly these string fields: "+
			`"mood", "atmosphere", "scents", "reason".`,
		w.Description, w.TemperatureC,
	)
}

// Recommend submits the weather to the model and parses the reply's inner
// JSON. Missing candidates or parts surface as domain.ErrInvalidAIResponse;
// a malformed inner document propagates as a wrapped parse error.
func (c *Client) Recommend(ctx context.Context, w domain.WeatherReading) (domain.FragranceRecommendation, error) {
	var zero domain.FragranceRecommendation

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(w)}}}},
		Config:   genConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return zero, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.base, c.model, url.QueryEscape(c.key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("gemini", "generateContent", 0, time.Since(start))
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("gemini", "generateContent", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return zero, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decode AI response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return zero, domain.ErrInvalidAIResponse
	}

	var rec domain.FragranceRecommendation
	if err := json.Unmarshal([]byte(out.Candidates[0].Content.Parts[0].Text), &rec); err != nil {
		return zero, fmt.Errorf("parse recommendation JSON: %w", err)
	}
	return rec, nil
}
