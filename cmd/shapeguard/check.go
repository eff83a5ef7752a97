package main

import (
	"os"

	"github.com/aretw0/shapeguard/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var checkCmd = &cobra.Command{
	Use:   "check [INPUT|-]",
	Short: "Check a JSON document against a schema",
	Long: `Reads a JSON document from INPUT (or stdin) and checks it against a schema file
or a registered schema. Exits 0 when the document conforms and 1 when it does not.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		opts := cli.CheckOptions{}
		opts.SchemaPath, _ = cmd.Flags().GetString("schema")
		opts.SchemaName, _ = cmd.Flags().GetString("name")
		if len(args) > 0 {
			opts.InputPath = args[0]
		}

		report, err := cli.RunCheck(cmd.Context(), svc, opts, cmd.InOrStdin())
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		fancy := !plain && term.IsTerminal(int(os.Stdout.Fd()))
		if err := cli.PrintReport(cmd.OutOrStdout(), report, fancy); err != nil {
			return err
		}

		if report.Invalid {
			svc.Close()
			os.Exit(exitInvalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("schema", "s", "", "Schema declaration file (YAML or JSON)")
	checkCmd.Flags().StringP("name", "n", "", "Name of a registered schema")
	checkCmd.Flags().Bool("plain", false, "Print a one-line verdict even on a terminal")
}
