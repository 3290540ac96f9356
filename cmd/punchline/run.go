package main

import (
	"github.com/aretw0/punchline/internal/cli"
	"github.com/spf13/cobra"
)

// flagKeys maps run flags to the config keys they override.
var flagKeys = map[string]string{
	"critic":       "critic",
	"embedder":     "embedder.backend",
	"index":        "index.backend",
	"catalog":      "catalog.backend",
	"catalog-path": "catalog.path",
	"metrics-addr": "metrics.addr",
	"log-level":    "log.level",
	"lock":         "lock.enabled",
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive joke session",
	Long:  `Shows the menu and loops through generate, critique and save until you quit or the critic rejects too many jokes in a row.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionOptions(cmd)
		if err != nil {
			return err
		}
		return cli.RunSession(opts)
	},
}

func sessionOptions(cmd *cobra.Command) (cli.SessionOptions, error) {
	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return cli.SessionOptions{}, err
	}
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			overrides[key] = cmd.Flags().Lookup(flag).Value.String()
		}
	}

	opts := cli.SessionOptions{Overrides: overrides}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.EnvFile, _ = cmd.Flags().GetString("env-file")
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	opts.LogFile, _ = cmd.Flags().GetString("log-file")
	opts.NoBanner, _ = cmd.Flags().GetBool("no-banner")
	opts.JSON, _ = cmd.Flags().GetBool("json")
	opts.SessionID, _ = cmd.Flags().GetString("session")
	return opts, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, c := range []*cobra.Command{runCmd, rootCmd} {
		f := c.Flags()
		f.String("critic", "human", "Who judges the jokes: human or llm")
		f.String("embedder", "voyage", "Embedding backend: voyage or hash")
		f.String("index", "pinecone", "Similarity index backend: pinecone, redis, file or memory")
		f.String("catalog", "file", "Catalog backend: file, sqlite, redis or memory")
		f.String("catalog-path", "", "Catalog file or database path")
		f.String("metrics-addr", "", "Serve /metrics, /healthz and /events on this address")
		f.String("log-level", "info", "Log level: debug, info, warn or error")
		f.Bool("lock", false, "Take a Redis lock around catalog writes")
		f.Bool("debug", false, "Enable debug logging of states and service calls")
		f.String("log-file", "", "Also write JSON logs to this file")
		f.Bool("no-banner", false, "Do not print the banner")
		f.Bool("json", false, "Run in JSON mode (NDJSON input/output)")
		f.String("session", "", "Session ID used in logs, metrics and /events (random if empty)")
	}

	// 'run' is the default when no command is given.
	rootCmd.RunE = runCmd.RunE
}
