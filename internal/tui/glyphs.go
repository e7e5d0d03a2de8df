package tui

import (
	"os"
	"strings"
	"sync"
)

// Row markers come in a Unicode and an ASCII set, for fonts that render the
// former poorly. POKEDEX_TUI_GLYPHS=ascii selects the latter.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("POKEDEX_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphCaptured() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "●"
}

func glyphPending() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "…"
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "..."
	}
	return "…"
}
