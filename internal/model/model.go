package model

import (
	"regexp"
	"strings"
)

// Item is one catalog record. Name is the natural key: it is stable across
// pages and filters, unlike Number or the row index.
type Item struct {
	Number         int     `json:"number"`
	Name           string  `json:"name"`
	TypeOne        string  `json:"type_one"`
	TypeTwo        *string `json:"type_two"`
	HitPoints      int     `json:"hit_points"`
	Attack         int     `json:"attack"`
	Defense        int     `json:"defense"`
	SpecialAttack  int     `json:"special_attack,omitempty"`
	SpecialDefense int     `json:"special_defense,omitempty"`
	Speed          int     `json:"speed"`

	// Captured is the only field the client mutates.
	Captured bool `json:"captured"`
}

// Types returns the item's type tags, primary first.
func (it Item) Types() []string {
	out := []string{it.TypeOne}
	if it.TypeTwo != nil && strings.TrimSpace(*it.TypeTwo) != "" {
		out = append(out, *it.TypeTwo)
	}
	return out
}

// Page is one list response from the catalog service.
type Page struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ToggleResult is the body of a toggle-capture response. Captured is nil when
// the service acknowledged without reporting the new value.
type ToggleResult struct {
	Name     string `json:"name"`
	Captured *bool  `json:"captured,omitempty"`
}

var capitalizedWord = regexp.MustCompile(`[A-Z][a-z]+`)

// IconSlug derives the sprite slug the catalog's icon endpoint expects:
// the first capitalized word of the name (so "VenusaurMega Venusaur" maps to
// "venusaur"), lowercased, spaces to dashes, dots and apostrophes dropped.
func IconSlug(name string) string {
	base := name
	if m := capitalizedWord.FindString(name); m != "" {
		base = m
	}
	base = strings.ToLower(base)
	base = strings.Join(strings.Fields(base), "-")
	base = strings.NewReplacer(".", "", "'", "").Replace(base)
	return base
}
