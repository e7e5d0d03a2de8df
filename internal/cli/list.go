package cli

import (
	"strconv"

	"pokedex-cli/internal/format"
	"pokedex-cli/internal/model"

	"github.com/spf13/cobra"
)

// queryFlags are the list filters shared by list and export. Flags that were
// set are patched over --query.
type queryFlags struct {
	query    string
	page     int
	limit    int
	search   string
	typ      string
	captured string
	sortBy   string
	order    string
}

func (f *queryFlags) register(cmd *cobra.Command, withPage bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.query, "query", "", "Base address, e.g. 'type=Fire&sortBy=name'")
	if withPage {
		fs.IntVar(&f.page, "page", 1, "Page number")
	}
	fs.IntVar(&f.limit, "limit", 0, "Page size (default: page_size)")
	fs.StringVar(&f.search, "search", "", "Name search")
	fs.StringVar(&f.typ, "type", "", "Type filter")
	fs.StringVar(&f.captured, "captured", "", "Captured filter (true|false)")
	fs.StringVar(&f.sortBy, "sort-by", "", "Sort field (number|name)")
	fs.StringVar(&f.order, "order", "", "Sort order (asc|desc)")
}

func (f *queryFlags) params(cmd *cobra.Command, pageSize int) model.QueryParams {
	q := model.ParseQuery(withPageSize(f.query, pageSize))
	p := model.Patch{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			p[key] = value
		}
	}
	set("search", model.KeySearch, f.search)
	set("type", model.KeyType, f.typ)
	set("captured", model.KeyCaptured, f.captured)
	set("sort-by", model.KeySortBy, f.sortBy)
	set("order", model.KeyOrder, f.order)
	set("limit", model.KeyLimit, strconv.Itoa(f.limit))
	if len(p) > 0 {
		q = q.Apply(p)
	}
	if cmd.Flags().Changed("page") {
		q = q.Apply(model.PageTo(f.page))
	}
	return q
}

func newListCmd(app *App) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			q := qf.params(cmd, app.Config.PageSize)
			app.Log.Debug().Str("query", q.Encode()).Msg("list")

			page, err := client.List(cmd.Context(), q.Request())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Page(page))
		},
	}
	qf.register(cmd, true)
	return cmd
}
