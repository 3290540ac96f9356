// Package config builds the single Config object the CLI hands to the engine
// and adapters. Sources, lowest precedence first: built-in defaults, the YAML
// file, the .env file and process environment, then command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/aretw0/punchline/pkg/adapters/file"
	"github.com/aretw0/punchline/pkg/adapters/openai"
	"github.com/aretw0/punchline/pkg/adapters/pinecone"
	"github.com/aretw0/punchline/pkg/adapters/redis"
	"github.com/aretw0/punchline/pkg/adapters/voyage"
	"github.com/aretw0/punchline/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "punchline.yaml"

// Backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPinecone = "pinecone"
	BackendVoyage   = "voyage"
	BackendHash     = "hash"

	CriticHuman = "human"
	CriticLLM   = "llm"
)

// Config is the full runtime configuration.
type Config struct {
	Critic     string         `yaml:"critic"`
	Categories []string       `yaml:"categories"`
	Languages  []string       `yaml:"languages"`
	Policy     PolicyConfig   `yaml:"policy"`
	LLM        LLMConfig      `yaml:"llm"`
	Embedder   EmbedderConfig `yaml:"embedder"`
	Index      IndexConfig    `yaml:"index"`
	Catalog    CatalogConfig  `yaml:"catalog"`
	Redis      RedisConfig    `yaml:"redis"`
	Lock       LockConfig     `yaml:"lock"`
	Services   ServicesConfig `yaml:"services"`
	Metrics    MetricsConfig  `yaml:"metrics"`
	Log        LogConfig      `yaml:"log"`
	Prompts    Prompts        `yaml:"prompts"`

	// Secrets only come from the environment.
	Secrets Secrets `yaml:"-"`
}

type PolicyConfig struct {
	MaxRetries          int     `yaml:"max_retries"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	Dimension           int     `yaml:"dimension"`
	BrowseLimit         int     `yaml:"browse_limit"`
}

type LLMConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	WriterTemperature float64 `yaml:"writer_temperature"`
	CriticTemperature float64 `yaml:"critic_temperature"`
}

type EmbedderConfig struct {
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type IndexConfig struct {
	Backend string `yaml:"backend"`
	// Name is the Pinecone index name, also used as a prefix to find an existing index.
	Name       string `yaml:"name"`
	Cloud      string `yaml:"cloud"`
	Region     string `yaml:"region"`
	ControlURL string `yaml:"control_url"`
	// Path is the vector file of the file backend.
	Path string `yaml:"path"`
}

type CatalogConfig struct {
	Backend string `yaml:"backend"`
	// Path is the JSON file of the file backend or the database of the sqlite backend.
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LockConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

type ServicesConfig struct {
	// Timeout bounds every external call made by the engine. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
}

type MetricsConfig struct {
	// Addr enables the metrics/health server when set (e.g. ":9090").
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Secrets struct {
	GroqAPIKey     string
	VoyageAPIKey   string
	PineconeAPIKey string
}

// Default returns the built-in configuration.
func Default() *Config {
	categories := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = string(c)
	}
	languages := make([]string, len(domain.Languages))
	for i, l := range domain.Languages {
		languages[i] = string(l)
	}

	return &Config{
		Critic:     CriticHuman,
		Categories: categories,
		Languages:  languages,
		Policy: PolicyConfig{
			MaxRetries:          5,
			SimilarityThreshold: 0.85,
			Dimension:           voyage.DefaultDimension,
			BrowseLimit:         5,
		},
		LLM: LLMConfig{
			BaseURL:           openai.DefaultBaseURL,
			Model:             openai.DefaultModel,
			WriterTemperature: openai.WriterTemperature,
			CriticTemperature: openai.CriticTemperature,
		},
		Embedder: EmbedderConfig{
			Backend: BackendVoyage,
			BaseURL: voyage.DefaultBaseURL,
			Model:   voyage.DefaultModel,
		},
		Index: IndexConfig{
			Backend:    BackendPinecone,
			Name:       "jokes",
			Cloud:      pinecone.DefaultCloud,
			Region:     pinecone.DefaultRegion,
			ControlURL: pinecone.DefaultControlURL,
			Path:       file.DefaultIndexPath,
		},
		Catalog: CatalogConfig{
			Backend: BackendFile,
			Path:    file.DefaultCatalogPath,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: redis.DefaultPrefix,
		},
		Lock: LockConfig{
			TTL: 30 * time.Second,
		},
		Services: ServicesConfig{
			Backoff: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Prompts: DefaultPrompts(),
	}
}

// Load reads the YAML file at path over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{CriticHuman, CriticLLM}, c.Critic) {
		errs = append(errs, fmt.Errorf("critic: unknown %q (want human or llm)", c.Critic))
	}
	if !slices.Contains(c.Categories, string(domain.DefaultCategory)) {
		errs = append(errs, fmt.Errorf("categories: must include the default %q", domain.DefaultCategory))
	}
	if !slices.Contains(c.Languages, string(domain.DefaultLanguage)) {
		errs = append(errs, fmt.Errorf("languages: must include the default %q", domain.DefaultLanguage))
	}
	if c.Policy.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("policy.max_retries: must be at least 1, got %d", c.Policy.MaxRetries))
	}
	if c.Policy.SimilarityThreshold <= 0 || c.Policy.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("policy.similarity_threshold: must be in (0, 1], got %v", c.Policy.SimilarityThreshold))
	}
	if c.Policy.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("policy.dimension: must be positive, got %d", c.Policy.Dimension))
	}
	if c.Policy.BrowseLimit <= 0 {
		errs = append(errs, fmt.Errorf("policy.browse_limit: must be positive, got %d", c.Policy.BrowseLimit))
	}
	if !slices.Contains([]string{BackendVoyage, BackendHash}, c.Embedder.Backend) {
		errs = append(errs, fmt.Errorf("embedder.backend: unknown %q", c.Embedder.Backend))
	}
	if !slices.Contains([]string{BackendPinecone, BackendFile, BackendRedis, BackendMemory}, c.Index.Backend) {
		errs = append(errs, fmt.Errorf("index.backend: unknown %q", c.Index.Backend))
	}
	if !slices.Contains([]string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}, c.Catalog.Backend) {
		errs = append(errs, fmt.Errorf("catalog.backend: unknown %q", c.Catalog.Backend))
	}
	if c.Services.Timeout < 0 || c.Services.Retries < 0 {
		errs = append(errs, errors.New("services: timeout and retries must not be negative"))
	}
	if c.Lock.Enabled && c.Lock.TTL <= 0 {
		errs = append(errs, errors.New("lock.ttl: must be positive when locking is enabled"))
	}

	return errors.Join(errs...)
}

// CategoryList returns the configured categories as domain values.
func (c *Config) CategoryList() []domain.Category {
	out := make([]domain.Category, len(c.Categories))
	for i, v := range c.Categories {
		out[i] = domain.Category(v)
	}
	return out
}

// LanguageList returns the configured languages as domain values.
func (c *Config) LanguageList() []domain.Language {
	out := make([]domain.Language, len(c.Languages))
	for i, v := range c.Languages {
		out[i] = domain.Language(v)
	}
	return out
}

// Masked returns a copy safe to print: secrets are reduced to a hint.
func (c *Config) Masked() *Config {
	cp := *c
	cp.Secrets = Secrets{
		GroqAPIKey:     mask(c.Secrets.GroqAPIKey),
		VoyageAPIKey:   mask(c.Secrets.VoyageAPIKey),
		PineconeAPIKey: mask(c.Secrets.PineconeAPIKey),
	}
	cp.Redis.Password = mask(c.Redis.Password)
	return &cp
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}
