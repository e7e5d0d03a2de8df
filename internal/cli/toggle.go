package cli

import (
	"strings"

	"pokedex-cli/internal/catalog"

	"github.com/spf13/cobra"
)

type toggleOutput struct {
	Name     string `json:"name"`
	Captured *bool  `json:"captured"`
}

func (o toggleOutput) TableHeaders() []string { return []string{"Name", "Captured"} }

func (o toggleOutput) TableRows() [][]string {
	captured := "unknown"
	if o.Captured != nil {
		captured = "no"
		if *o.Captured {
			captured = "yes"
		}
	}
	return [][]string{{o.Name, captured}}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip an item's captured flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			client, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := client.ToggleCapture(cmd.Context(), name)
			if err != nil {
				if catalog.IsNotFound(err) {
					return writeErr(cmd, errNotFound("pokemon", name))
				}
				return writeErr(cmd, err)
			}
			if res.Name == "" {
				res.Name = name
			}
			app.Log.Debug().Str("name", res.Name).Msg("toggled")
			return writeOut(cmd, app, toggleOutput{Name: res.Name, Captured: res.Captured})
		},
	}
}
