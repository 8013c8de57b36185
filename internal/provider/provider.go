// Package provider sends prompts to model providers and extracts the
// generated text from their responses.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/prompt"
)

// Adapter turns a prompt pair into generated text
type Adapter interface {
	Kind() Kind
	Invoke(ctx context.Context, pair prompt.Pair) (string, error)
}

// Option customises an adapter
type Option func(*client)

// WithHTTPClient sets the client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *client) {
		c.logger = logger
	}
}

// client is the HTTP adapter shared by every provider kind
type client struct {
	kind    Kind
	builder RequestBuilder
	http    *http.Client
	logger  zerolog.Logger
}

// New validates cfg and returns the adapter for its provider. Nothing is
// sent until Invoke is called.
func New(cfg models.Configuration, opts ...Option) (Adapter, error) {
	kind, err := ParseKind(cfg.Provider)
	if err != nil {
		return nil, err
	}

	info := Describe(kind)
	if info.RequiresKey && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.Config("no API key configured for %s. Run: lexi config set api_key <your-key>", kind)
	}
	if info.RequiresBaseURL && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, apperr.Config("%s base_url not configured. Set: lexi config set base_url https://your-resource.openai.azure.com", kind.Label())
	}

	c := &client{
		kind:    kind,
		builder: NewRequestBuilder(kind, cfg),
		http:    http.DefaultClient,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) Kind() Kind {
	return c.kind
}

// Invoke sends one request and returns the generated text unmodified
func (c *client) Invoke(ctx context.Context, pair prompt.Pair) (string, error) {
	body, err := json.Marshal(c.builder.Body(pair))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := c.builder.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Transport(c.kind.Label(), err)
	}
	for key, value := range c.builder.Headers() {
		req.Header.Set(key, value)
	}

	c.logger.Debug().Str("provider", c.kind.String()).Str("endpoint", endpoint).Int("bytes", len(body)).Msg("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Transport(c.kind.Label(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Transport(c.kind.Label(), err)
	}

	c.logger.Debug().Str("provider", c.kind.String()).Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperr.ProviderError{
			Provider: c.kind.Label(),
			Status:   resp.StatusCode,
			Body:     string(raw),
			Category: Categorize(resp.StatusCode, raw),
		}
	}

	result := gjson.GetBytes(raw, c.builder.ResultPath())
	if !result.Exists() || result.Type != gjson.String {
		return "", &apperr.ProviderError{
			Provider: c.kind.Label(),
			Body:     fmt.Sprintf("response has no %s field: %s", c.builder.ResultPath(), raw),
			Category: CategoryFormatIncompatible,
		}
	}
	return result.String(), nil
}
