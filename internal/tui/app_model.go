package tui

import (
	"context"
	"time"

	"pokedex-cli/internal/browse"
	"pokedex-cli/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Catalog is what the browser needs from the catalog service.
type Catalog interface {
	browse.Source
	browse.Toggler
	Types(ctx context.Context) ([]string, error)
	IconURL(name string) string
}

// Session persists the scroll offset and the address across launches.
type Session interface {
	browse.OffsetStore
	SetLastQuery(q string) error
}

type Options struct {
	Catalog  Catalog
	Session  Session
	Reporter browse.Reporter
	Log      zerolog.Logger

	// InitialQuery is the address to open (deep link).
	InitialQuery string
	SearchDelay  time.Duration
	// Source is shown in the header (the service URL).
	Source string

	// Timings; zero selects the defaults below.
	FlashFor     time.Duration
	RestoreDelay time.Duration
	Frame        time.Duration
}

const (
	defaultFlashFor     = 4 * time.Second
	defaultRestoreDelay = 100 * time.Millisecond
	typesTimeout        = 10 * time.Second
)

type appModel struct {
	engine  *browse.Engine
	catalog Catalog
	log     zerolog.Logger
	source  string

	width  int
	height int

	focus   focus
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	cursor int
	offset int
	// shownFilters are the filters of the list on screen; a load with
	// different ones scrolls back to the top.
	shownFilters model.QueryParams

	// lastVis is the last sentinel visibility reported to the trigger.
	lastVis browse.Visibility

	restoreTarget int
	restoreSeq    int

	types    []string
	typesErr error

	showDetail bool
	copy       func(string) error

	flash    string
	flashErr bool
	flashSeq int

	flashFor     time.Duration
	restoreDelay time.Duration
	frame        time.Duration
}

func newAppModel(opts Options) appModel {
	var offsets browse.OffsetStore
	if opts.Session != nil {
		offsets = opts.Session
	}
	eng := browse.New(browse.Deps{
		Source:       opts.Catalog,
		Toggler:      opts.Catalog,
		Offsets:      offsets,
		Reporter:     opts.Reporter,
		Log:          opts.Log,
		InitialQuery: opts.InitialQuery,
		SearchDelay:  opts.SearchDelay,
		Frame:        opts.Frame,
	})
	if opts.Session != nil {
		sess, log := opts.Session, opts.Log
		eng.Location.OnChange(func(q string) {
			if err := sess.SetLastQuery(q); err != nil {
				log.Warn().Err(err).Msg("save last query")
			}
		})
	}

	m := appModel{
		engine:       eng,
		catalog:      opts.Catalog,
		log:          opts.Log,
		source:       opts.Source,
		keys:         defaultKeyMap(),
		copy:         copyToClipboard,
		help:         help.New(),
		flashFor:     opts.FlashFor,
		restoreDelay: opts.RestoreDelay,
		frame:        opts.Frame,
	}
	if m.flashFor <= 0 {
		m.flashFor = defaultFlashFor
	}
	if m.restoreDelay <= 0 {
		m.restoreDelay = defaultRestoreDelay
	}
	if m.frame <= 0 {
		m.frame = browse.DefaultFrame
	}

	m.search = textinput.New()
	m.search.Placeholder = "Search by name"
	m.search.Prompt = "/ "
	m.search.CharLimit = 64
	m.search.Width = 24
	m.search.SetValue(eng.Search.Value())

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = styleMuted
	return m
}

func (m appModel) Init() tea.Cmd {
	start := m.engine.Start()
	// Let the anchor see the initial load begin, so the saved offset is
	// restored when it settles.
	m.engine.RestoreOffset()
	return tea.Batch(
		start,
		m.spinner.Tick,
		m.loadTypes(),
	)
}

func (m appModel) loadTypes() tea.Cmd {
	c := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), typesTimeout)
		defer cancel()
		types, err := c.Types(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
}
