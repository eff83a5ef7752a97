package main

import (
	"context"
	"fmt"

	"github.com/aretw0/shapeguard/internal/cli"
	"github.com/aretw0/shapeguard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP validation server",
	Long: `Exposes the schema registry and structural validation over HTTP:
GET /schemas, GET|PUT|DELETE /schemas/{name}, POST /validate/{name}, /metrics and /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		port := svc.Config.HTTP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.PrintBanner(cmd.OutOrStdout())
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Listening on :%d (store: %s)", port, svc.Config.Store.Driver)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, svc, fmt.Sprintf(":%d", port)); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil && !quiet {
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Stopped (%v).", sig)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
