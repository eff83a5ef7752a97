package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/shapeguard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shapeguard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shapeguard version %s\n", strings.TrimSpace(shapeguard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
