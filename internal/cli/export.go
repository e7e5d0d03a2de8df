package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"pokedex-cli/internal/browse"
	"pokedex-cli/internal/format"
	"pokedex-cli/internal/model"

	"github.com/natefinch/atomic"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type exportResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

func (r exportResult) TableHeaders() []string { return []string{"Path", "Count", "Total"} }
func (r exportResult) TableRows() [][]string {
	return [][]string{{r.Path, fmt.Sprint(r.Count), fmt.Sprint(r.Total)}}
}

func newExportCmd(app *App) *cobra.Command {
	var (
		qf       queryFlags
		out      string
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch every page matching the filters",
		Long: "Fetch every page matching the filters and write the merged, de-duplicated\n" +
			"items to stdout or --out. Progress is drawn on stderr when it is a terminal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			q := qf.params(cmd, app.Config.PageSize)

			var (
				items []model.Item
				total int
				bar   *progressbar.ProgressBar
			)
			for page := 1; maxPages <= 0 || page <= maxPages; page++ {
				req := q.Request()
				req.Page = page
				res, err := client.List(cmd.Context(), req)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("page %d: %w", page, err))
				}
				if bar == nil {
					bar = newProgressBar(cmd.ErrOrStderr(), res.Total)
				}
				total = res.Total

				var added int
				items, added = browse.MergeItems(items, res.Items, page == 1)
				_ = bar.Set(len(items))
				app.Log.Debug().Int("page", page).Int("added", added).Int("total", total).Msg("export page")

				// The service can report more than it serves; stop on an empty page.
				if len(items) >= total || added == 0 {
					break
				}
			}
			if bar != nil {
				_ = bar.Finish()
			}

			if out == "" {
				return writeOut(cmd, app, format.Items(items))
			}
			var buf bytes.Buffer
			if err := format.Write(&buf, format.Items(items), app.Format, app.PrettyJSON); err != nil {
				return writeErr(cmd, err)
			}
			if err := atomic.WriteFile(out, &buf); err != nil {
				return writeErr(cmd, fmt.Errorf("write %s: %w", out, err))
			}
			return writeOut(cmd, app, exportResult{Path: out, Count: len(items), Total: total})
		},
	}
	qf.register(cmd, false)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write items to this file instead of stdout")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages (0: no limit)")
	return cmd
}

// progressRedraw is the minimum interval between progress bar redraws.
const progressRedraw = 100 * time.Millisecond

// newProgressBar draws on w only when w is a terminal.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		w = io.Discard
	}
	return drawProgressBar(w, total)
}

func drawProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("exporting"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(progressRedraw),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
