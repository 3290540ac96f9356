package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/punchline/internal/cli"
	"github.com/aretw0/punchline/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "punchline",
	Short: "Punchline writes jokes and lets a critic decide which ones to keep",
	Long: `Punchline asks a language model for jokes in the category and language you pick,
has a critic (you, or a second model) approve or reject each one, and saves the
approved ones unless a semantically similar joke is already in the catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file with API keys")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a config key (e.g. --set catalog.backend=sqlite)")
}

// loadConfig resolves the configuration with the persistent flags plus extra overrides.
func loadConfig(cmd *cobra.Command, extra map[string]any) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		overrides[k] = v
	}
	return cli.LoadConfig(path, envFile, overrides)
}

// overridesFromFlags parses the repeated --set key=value flag.
func overridesFromFlags(cmd *cobra.Command) (map[string]any, error) {
	sets, _ := cmd.Flags().GetStringArray("set")
	overrides := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		overrides[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return overrides, nil
}
