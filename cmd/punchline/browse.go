package main

import (
	"github.com/aretw0/punchline/internal/cli"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Print the most recently saved jokes",
	RunE: func(cmd *cobra.Command, args []string) error {
		extra := map[string]any{}
		if cmd.Flags().Changed("catalog") {
			extra["catalog.backend"], _ = cmd.Flags().GetString("catalog")
		}
		if cmd.Flags().Changed("catalog-path") {
			extra["catalog.path"], _ = cmd.Flags().GetString("catalog-path")
		}
		cfg, err := loadConfig(cmd, extra)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("limit")
		return cli.PrintRecent(cmd.Context(), cfg, n, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().IntP("limit", "n", 0, "Number of jokes to show (default: policy.browse_limit)")
	browseCmd.Flags().String("catalog", "file", "Catalog backend: file, sqlite, redis or memory")
	browseCmd.Flags().String("catalog-path", "", "Catalog file or database path")
}
