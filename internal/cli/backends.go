package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/punchline/internal/config"
	"github.com/aretw0/punchline/internal/runtime"
	"github.com/aretw0/punchline/pkg/adapters/file"
	"github.com/aretw0/punchline/pkg/adapters/memory"
	"github.com/aretw0/punchline/pkg/adapters/openai"
	"github.com/aretw0/punchline/pkg/adapters/pinecone"
	"github.com/aretw0/punchline/pkg/adapters/redis"
	"github.com/aretw0/punchline/pkg/adapters/sqlite"
	"github.com/aretw0/punchline/pkg/adapters/voyage"
	"github.com/aretw0/punchline/pkg/ports"
	goredis "github.com/redis/go-redis/v9"
)

// Backends holds the collaborators built from a Config.
type Backends struct {
	Services runtime.Services
	// Locker is nil unless lock.enabled is set.
	Locker ports.Locker

	// HTTPClient is shared by the LLM, embedding and index adapters. Tests swap it.
	HTTPClient *http.Client

	redis   *goredis.Client
	closers []func() error
}

// Close releases database, Redis and Pinecone connections.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}

// BuildBackends wires every port from cfg. human is used when cfg.Critic is "human".
func BuildBackends(ctx context.Context, cfg *config.Config, human ports.Critic, logger *slog.Logger) (*Backends, error) {
	b := &Backends{HTTPClient: &http.Client{Timeout: defaultHTTPTimeout}}
	if err := b.build(ctx, cfg, human, logger); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backends) build(ctx context.Context, cfg *config.Config, human ports.Critic, logger *slog.Logger) error {
	if cfg.Secrets.GroqAPIKey == "" {
		return fmt.Errorf("%s is required to generate jokes", config.EnvGroqAPIKey)
	}
	llm := openai.NewClient(cfg.Secrets.GroqAPIKey,
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithModel(cfg.LLM.Model),
		openai.WithHTTPClient(b.HTTPClient),
		openai.WithRetries(cfg.Services.Retries, cfg.Services.Backoff),
		openai.WithLogger(logger),
	)

	gen := openai.NewGenerator(llm)
	gen.Temperature = cfg.LLM.WriterTemperature
	b.Services.Generator = gen

	switch cfg.Critic {
	case config.CriticLLM:
		critic := openai.NewCritic(llm, cfg.CriticInstructions())
		critic.Temperature = cfg.LLM.CriticTemperature
		b.Services.Critic = critic
	default:
		if human == nil {
			return errors.New("human critic requested but no terminal handler available")
		}
		b.Services.Critic = human
	}

	embedder, err := b.embedder(cfg, logger)
	if err != nil {
		return err
	}
	b.Services.Embedder = embedder

	if b.Services.Index, err = b.index(ctx, cfg, logger); err != nil {
		return err
	}
	if b.Services.Catalog, err = b.catalog(cfg); err != nil {
		return err
	}

	if cfg.Lock.Enabled {
		b.Locker = redis.NewLocker(b.redisClient(cfg), redis.WithPrefix(cfg.Redis.Prefix))
	}
	return nil
}

func (b *Backends) embedder(cfg *config.Config, logger *slog.Logger) (ports.Embedder, error) {
	switch cfg.Embedder.Backend {
	case config.BackendHash:
		return memory.NewHashEmbedder(cfg.Policy.Dimension), nil
	case config.BackendVoyage:
		if cfg.Secrets.VoyageAPIKey == "" {
			return nil, fmt.Errorf("%s is required by the voyage embedder", config.EnvVoyageAPIKey)
		}
		return voyage.New(cfg.Secrets.VoyageAPIKey,
			voyage.WithBaseURL(cfg.Embedder.BaseURL),
			voyage.WithModel(cfg.Embedder.Model),
			voyage.WithDimension(cfg.Policy.Dimension),
			voyage.WithHTTPClient(b.HTTPClient),
			voyage.WithRetries(cfg.Services.Retries, cfg.Services.Backoff),
			voyage.WithLogger(logger),
		), nil
	}
	return nil, fmt.Errorf("unknown embedder backend %q", cfg.Embedder.Backend)
}

func (b *Backends) index(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.SimilarityIndex, error) {
	switch cfg.Index.Backend {
	case config.BackendMemory:
		return memory.NewIndex(), nil
	case config.BackendFile:
		return file.NewIndex(cfg.Index.Path), nil
	case config.BackendRedis:
		return redis.NewIndex(b.redisClient(cfg), redis.WithPrefix(cfg.Redis.Prefix)), nil
	case config.BackendPinecone:
		if cfg.Secrets.PineconeAPIKey == "" {
			return nil, fmt.Errorf("%s is required by the pinecone index", config.EnvPineconeAPIKey)
		}
		idx, err := pinecone.Open(ctx, cfg.Secrets.PineconeAPIKey, cfg.Index.Name,
			pinecone.WithControlURL(cfg.Index.ControlURL),
			pinecone.WithDimension(cfg.Policy.Dimension),
			pinecone.WithServerless(cfg.Index.Cloud, cfg.Index.Region),
			pinecone.WithHTTPClient(b.HTTPClient),
			pinecone.WithRetries(cfg.Services.Retries, cfg.Services.Backoff),
			pinecone.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("open pinecone index: %w", err)
		}
		b.closers = append(b.closers, idx.Close)
		logger.Info("using pinecone index", "name", idx.Name(), "host", idx.Host())
		return idx, nil
	}
	return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
}

func (b *Backends) catalog(cfg *config.Config) (ports.Catalog, error) {
	switch cfg.Catalog.Backend {
	case config.BackendMemory:
		return memory.NewCatalog(), nil
	case config.BackendFile:
		return file.NewCatalog(cfg.Catalog.Path), nil
	case config.BackendRedis:
		return redis.NewCatalog(b.redisClient(cfg), redis.WithPrefix(cfg.Redis.Prefix)), nil
	case config.BackendSQLite:
		c, err := sqlite.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, c.Close)
		return c, nil
	}
	return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
}

// redisClient returns the shared client, connecting on first use.
func (b *Backends) redisClient(cfg *config.Config) *goredis.Client {
	if b.redis == nil {
		b.redis = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		b.closers = append(b.closers, b.redis.Close)
	}
	return b.redis
}

// OpenCatalog builds only the catalog, for commands that just read it.
func OpenCatalog(cfg *config.Config) (ports.Catalog, func() error, error) {
	b := &Backends{}
	c, err := b.catalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, b.Close, nil
}
