package main

import (
	"github.com/aretw0/shapeguard/internal/cli"
	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage registered schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered schema names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		return cli.ListSchemas(cmd.Context(), svc, cmd.OutOrStdout())
	},
}

var schemasShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a registered schema as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		return cli.ShowSchema(cmd.Context(), svc, args[0], cmd.OutOrStdout())
	},
}

var schemasPutCmd = &cobra.Command{
	Use:   "put NAME FILE",
	Short: "Register the schema declared in FILE under NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := cli.PutSchema(cmd.Context(), svc, args[0], args[1]); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Registered '%s'.", args[0])
		return nil
	},
}

var schemasRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a registered schema",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		return cli.RemoveSchema(cmd.Context(), svc, args[0])
	},
}

var schemasImportCmd = &cobra.Command{
	Use:   "import-openapi FILE",
	Short: "Register the component schemas of an OpenAPI document",
	Long: `Converts components.schemas of an OpenAPI 3 document into structural schemas.
Components using composition (oneOf, anyOf, allOf) or recursion are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		only, _ := cmd.Flags().GetStringSlice("only")
		imported, err := cli.ImportOpenAPI(cmd.Context(), svc, args[0], only)
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Imported %d schemas: %v", len(imported), imported)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasListCmd, schemasShowCmd, schemasPutCmd, schemasRemoveCmd, schemasImportCmd)

	schemasImportCmd.Flags().StringSlice("only", nil, "Import only these components")
}
