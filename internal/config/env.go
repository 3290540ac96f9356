package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvGroqAPIKey          = "GROQ_API_KEY"
	EnvVoyageAPIKey        = "VOYAGE_API_KEY"
	EnvPineconeAPIKey      = "PINECONE_API_KEY"
	EnvPineconeIndexName   = "PINECONE_INDEX_NAME"
	EnvPineconeEnvironment = "PINECONE_ENVIRONMENT"
	EnvRedisAddr           = "REDIS_ADDR"
	EnvRedisPassword       = "REDIS_PASSWORD"
)

// LoadDotEnv loads KEY=VALUE files into the process environment.
// Variables already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv copies secrets and connection settings from the environment.
func (c *Config) ApplyEnv() {
	c.Secrets.GroqAPIKey = os.Getenv(EnvGroqAPIKey)
	c.Secrets.VoyageAPIKey = os.Getenv(EnvVoyageAPIKey)
	c.Secrets.PineconeAPIKey = os.Getenv(EnvPineconeAPIKey)

	if v := os.Getenv(EnvPineconeIndexName); v != "" {
		c.Index.Name = v
	}
	// Pinecone serverless region.
	if v := os.Getenv(EnvPineconeEnvironment); v != "" {
		c.Index.Region = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
}
