package cli

import (
	"pokedex-cli/internal/format"

	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type names the catalog knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			types, err := client.Types(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Names{Header: "Type", Values: types})
		},
	}
}
