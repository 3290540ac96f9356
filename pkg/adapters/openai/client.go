// Package openai talks to OpenAI-compatible chat completion APIs
// (Groq by default) to write and judge jokes.
package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/punchline/internal/apiclient"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the model used for both writing and critiquing.
	DefaultModel = "llama-3.1-8b-instant"
)

// ErrEmptyCompletion is returned when the API answers without any choice.
var ErrEmptyCompletion = errors.New("completion returned no choices")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Client is a minimal chat completions client.
type Client struct {
	api     *apiclient.Client
	baseURL string
	model   string
}

type options struct {
	baseURL    string
	model      string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another OpenAI-compatible server.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRetries retries rate-limited and 5xx responses n times, doubling the delay from backoff.
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

// NewClient creates a client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	o := options{baseURL: DefaultBaseURL, model: DefaultModel, backoff: time.Second}
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
	return &Client{api: api, baseURL: o.baseURL, model: o.model}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	req := completionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}

	var resp completionResponse
	if err := c.api.Do(ctx, http.MethodPost, c.baseURL+"/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
