package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/punchline"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of punchline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "punchline version %s\n", strings.TrimSpace(punchline.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
