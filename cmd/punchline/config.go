package main

import (
	"github.com/aretw0/punchline/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configView adds the masked secrets, which Config never serializes.
type configView struct {
	config.Config `yaml:",inline"`
	Secrets       map[string]string `yaml:"secrets"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		masked := cfg.Masked()

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(configView{
			Config: *masked,
			Secrets: map[string]string{
				config.EnvGroqAPIKey:     masked.Secrets.GroqAPIKey,
				config.EnvVoyageAPIKey:   masked.Secrets.VoyageAPIKey,
				config.EnvPineconeAPIKey: masked.Secrets.PineconeAPIKey,
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
