package cli

import (
	"context"
	"fmt"

	"pokedex-cli/internal/browse"
	"pokedex-cli/internal/metrics"
	"pokedex-cli/internal/session"
	"pokedex-cli/internal/tui"

	"github.com/spf13/cobra"
)

func runBrowse(cmd *cobra.Command, app *App, query string) error {
	cfg := app.Config
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := app.catalog()
	if err != nil {
		return writeErr(cmd, err)
	}

	sess, err := session.Open(ctx, cfg.SessionFile)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("open session: %w", err))
	}
	defer sess.Close()

	if !cmd.Flags().Changed("query") {
		last, err := sess.LastQuery()
		if err != nil {
			app.Log.Warn().Err(err).Msg("read last query")
		}
		query = last
	}

	var rep browse.Reporter
	if cfg.MetricsAddr != "" {
		rec := metrics.NewRecorder()
		if _, err := rec.Serve(ctx, cfg.MetricsAddr, app.Log); err != nil {
			return writeErr(cmd, fmt.Errorf("metrics: %w", err))
		}
		rep = rec
	}

	app.Log.Info().Str("api", client.BaseURL()).Str("query", query).Msg("browse")
	return tui.Run(tui.Options{
		Catalog:      client,
		Session:      sess,
		Reporter:     rep,
		Log:          app.Log,
		InitialQuery: withPageSize(query, cfg.PageSize),
		SearchDelay:  cfg.SearchDebounce,
		Source:       client.BaseURL(),
	})
}
