package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"pokedex-cli/internal/catalog"
	"pokedex-cli/internal/config"
	"pokedex-cli/internal/format"
	"pokedex-cli/internal/logging"
	"pokedex-cli/internal/model"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	PrettyJSON bool
	Format     string

	Config *config.Config
	Log    zerolog.Logger

	closeLog func() error
}

// Config keys that have a persistent flag of their own.
var flagKeys = map[string]string{
	config.KeyAPIURL:      "api",
	config.KeyLogLevel:    "log-level",
	config.KeyLogFile:     "log-file",
	config.KeyMetricsAddr: "metrics-addr",
	config.KeyPageSize:    "page-size",
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var query string

	cmd := &cobra.Command{
		Use:          "pokedex",
		Short:        "Browse a Pokémon catalog service from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive browser
  pokedex

  # Open the browser on a saved address (deep link)
  pokedex --query 'type=Fire&sortBy=name&page=3'

  # Scriptable commands
  pokedex list --search char --format table
  pokedex export --query 'captured=true' --out captured.json
  pokedex toggle Bulbasaur
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, app, query)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		mode := logging.ModeCLI
		if cmd == cmd.Root() {
			mode = logging.ModeTUI
		}
		return app.setup(cmd, mode)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigDir, "config-dir", "", "Config directory (default: $POKEDEX_CONFIG_DIR or ~/.pokedex)")
	pf.String("api", "", "Catalog service base URL (overrides api_url)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-file", "", "Log file for the interactive browser")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address while browsing")
	pf.Int("page-size", 0, "Default page size when the query has no limit")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("POKEDEX_FORMAT", "json"), "Output format (json|table)")

	cmd.Flags().StringVar(&query, "query", "", "Address to open, e.g. 'search=pika&page=2' (default: the last session's)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newTypesCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup loads the layered config and builds the logger for cmd.
func (app *App) setup(cmd *cobra.Command, mode logging.Mode) error {
	if err := app.resolveDir(); err != nil {
		return err
	}
	dir := app.ConfigDir

	v := config.New(dir)
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return err
	}
	cfg, err := config.Load(v, dir)
	if err != nil {
		return err
	}
	app.Config = cfg

	opts := logging.Options{Mode: mode, Level: cfg.LogLevel, File: cfg.LogFile}
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		opts.Out = w
	}
	log, closeLog, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.Log = log
	app.closeLog = closeLog
	return nil
}

func (app *App) resolveDir() error {
	if app.ConfigDir != "" {
		return nil
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	app.ConfigDir = dir
	return nil
}

func (app *App) catalog() (*catalog.Client, error) {
	c := app.Config
	return catalog.New(catalog.Options{
		BaseURL:    c.APIURL,
		Collection: c.Collection,
		TypesPath:  c.TypesPath,
		Timeout:    c.RequestTimeout,
		RatePerSec: c.RateLimit,
		Logger:     app.Log,
	})
}

// withPageSize adds the configured page size to query unless it names a
// limit already.
func withPageSize(query string, size int) string {
	raw := strings.TrimPrefix(strings.TrimSpace(query), "?")
	v, err := url.ParseQuery(raw)
	if err != nil || v.Has(model.KeyLimit) || size <= 0 || size == model.DefaultLimit {
		return raw
	}
	v.Set(model.KeyLimit, strconv.Itoa(size))
	return v.Encode()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut wraps v in the {"data": ...} envelope for json; tables render v
// directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == "table" {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
