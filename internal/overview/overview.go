// Package overview asks a Gemini model for a short narrative summary of a
// rendered changelog.
package overview

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okineadev/gitpaper/internal/logging"
)

// DefaultBaseURL is the Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned when the generator has no key.
var ErrNoAPIKey = errors.New("overview: api key required")

//go:embed prompt.txt
var promptTemplate string

// Options configures a Generator.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Generator produces overviews.
type Generator struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Generator{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		http:    httpClient,
		logger:  logging.OrNop(opts.Logger).Named("overview"),
	}
}

// Prompt returns the prompt sent for changelog.
func Prompt(changelog string) string {
	return strings.Replace(promptTemplate, "{{changelog}}", strings.TrimSpace(changelog), 1)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ThinkingConfig struct {
			ThinkingBudget  int  `json:"thinkingBudget"`
			IncludeThoughts bool `json:"includeThoughts"`
		} `json:"thinkingConfig"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate returns a short summary of the markdown changelog.
func (g *Generator) Generate(ctx context.Context, changelog string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoAPIKey
	}

	var reqBody generateRequest
	reqBody.Contents = []content{{Role: "user", Parts: []part{{Text: Prompt(changelog)}}}}
	reqBody.GenerationConfig.ThinkingConfig.ThinkingBudget = 0

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("overview request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading overview response: %w", err)
	}
	g.logger.Debug("generated overview",
		zap.String("model", g.model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("overview: decoding response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("overview: %s: %s", out.Error.Status, out.Error.Message)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("overview: unexpected status %d", resp.StatusCode)
	}

	var text strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	summary := strings.TrimSpace(text.String())
	if summary == "" {
		return "", errors.New("overview: model returned no text")
	}
	return summary, nil
}
