// Package voyage implements ports.Embedder with the Voyage AI embeddings API.
package voyage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/punchline/internal/apiclient"
	"github.com/aretw0/punchline/pkg/domain"
)

const (
	DefaultBaseURL   = "https://api.voyageai.com/v1"
	DefaultModel     = "voyage-3.5"
	DefaultDimension = 1024
)

type embedRequest struct {
	Input           []string `json:"input"`
	Model           string   `json:"model"`
	InputType       string   `json:"input_type"`
	OutputDimension int      `json:"output_dimension"`
}

type embedResponse struct {
	Data []struct {
		Embedding domain.Vector `json:"embedding"`
		Index     int           `json:"index"`
	} `json:"data"`
}

// Embedder calls POST /embeddings with input_type=query.
type Embedder struct {
	api     *apiclient.Client
	baseURL string
	model   string
	dim     int
}

type options struct {
	baseURL    string
	model      string
	dim        int
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures an Embedder.
type Option func(*options)

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the embedding model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithDimension sets the requested output dimension.
func WithDimension(dim int) Option {
	return func(o *options) {
		if dim > 0 {
			o.dim = dim
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRetries retries rate-limited and 5xx responses n times.
func WithRetries(n int, backoff time.Duration) Option {
	return func(o *options) {
		o.retries = n
		o.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates an Embedder authenticated with apiKey.
func New(apiKey string, opts ...Option) *Embedder {
	o := options{baseURL: DefaultBaseURL, model: DefaultModel, dim: DefaultDimension, backoff: time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	api := apiclient.New(
		apiclient.WithHTTPClient(o.httpClient),
		apiclient.WithHeader("Authorization", "Bearer "+apiKey),
		apiclient.WithRetries(o.retries),
		apiclient.WithBackoff(o.backoff),
		apiclient.WithLogger(o.logger),
	)
	return &Embedder{api: api, baseURL: o.baseURL, model: o.model, dim: o.dim}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	req := embedRequest{
		Input:           []string{text},
		Model:           e.model,
		InputType:       "query",
		OutputDimension: e.dim,
	}

	var resp embedResponse
	if err := e.api.Do(ctx, http.MethodPost, e.baseURL+"/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("voyage: empty embedding response")
	}

	vec := resp.Data[0].Embedding
	if len(vec) != e.dim {
		return nil, fmt.Errorf("voyage: expected %d dimensions, got %d", e.dim, len(vec))
	}
	return vec, nil
}

// Dimension returns the configured output dimension.
func (e *Embedder) Dimension() int {
	return e.dim
}
