package cli

import (
	"strings"

	"pokedex-cli/internal/config"
	"pokedex-cli/internal/format"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetAPICmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings and where they came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.Config.Settings()
			settings["config_dir"] = app.Config.Dir
			settings["config_file"] = app.Config.File
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"data": settings}, app.PrettyJSON)
		},
	}
}

func newConfigSetAPICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-api <url>",
		Short: "Save the catalog service URL to config.yaml",
		Args:  cobra.ExactArgs(1),
		// Skips loading the current config, so a broken api_url can be fixed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.Log = zerolog.Nop()
			return app.resolveDir()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			u := strings.TrimSpace(args[0])
			path, err := config.SetAPIURL(app.ConfigDir, u)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.Log.Info().Str("path", path).Str("api_url", u).Msg("saved api url")
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"data": map[string]string{"path": path, "api_url": u}}, app.PrettyJSON)
		},
	}
}
