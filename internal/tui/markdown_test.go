package tui

import (
	"strings"
	"testing"

	"pokedex-cli/internal/model"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

func TestMarkdownStyle_Override(t *testing.T) {
	t.Setenv("POKEDEX_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("POKEDEX_TUI_MD_STYLE", " Dark ")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyleConfig_KeepsLinkStylesAndDropsMargin(t *testing.T) {
	t.Run("dark", func(t *testing.T) {
		got := markdownStyleConfig("dark")
		assertStylePrimitiveEqual(t, got.Link, styles.DarkStyleConfig.Link)
		if got.Document.Margin == nil || *got.Document.Margin != 0 {
			t.Fatalf("expected zero document margin")
		}
	})

	t.Run("light", func(t *testing.T) {
		got := markdownStyleConfig("light")
		assertStylePrimitiveEqual(t, got.Link, styles.LightStyleConfig.Link)
		assertStylePrimitiveEqual(t, got.LinkText, styles.LightStyleConfig.LinkText)
	})

	// The shared defaults must not be modified through the copy.
	if m := styles.DarkStyleConfig.Document.Margin; m != nil && *m == 0 {
		t.Fatalf("default dark style was mutated")
	}
}

func TestRenderMarkdown_ItemDetail(t *testing.T) {
	t.Setenv("POKEDEX_TUI_MD_STYLE", "dark")

	two := "Poison"
	it := model.Item{Number: 1, Name: "Bulbasaur", TypeOne: "Grass", TypeTwo: &two, HitPoints: 45, Captured: true}
	md := itemMarkdown(it, "http://localhost:8080/icon/bulbasaur", true)
	for _, want := range []string{"Bulbasaur", "Grass / Poison", "captured (saving…)", "| HP | 45 |", "icon/bulbasaur"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}

	out := renderMarkdown(md, 40)
	if !strings.Contains(out, "Bulbasaur") {
		t.Fatalf("rendered output missing name:\n%s", out)
	}
	if renderMarkdown("  \n", 40) != "" {
		t.Fatalf("expected empty render for blank input")
	}
}

func assertStylePrimitiveEqual(t *testing.T, got ansi.StylePrimitive, want ansi.StylePrimitive) {
	t.Helper()

	if strPtrValue(got.Color) != strPtrValue(want.Color) {
		t.Fatalf("Color: got %q want %q", strPtrValue(got.Color), strPtrValue(want.Color))
	}
	if boolPtrValue(got.Bold) != boolPtrValue(want.Bold) {
		t.Fatalf("Bold: got %v want %v", boolPtrValue(got.Bold), boolPtrValue(want.Bold))
	}
	if boolPtrValue(got.Underline) != boolPtrValue(want.Underline) {
		t.Fatalf("Underline: got %v want %v", boolPtrValue(got.Underline), boolPtrValue(want.Underline))
	}
	if got.Prefix != want.Prefix {
		t.Fatalf("Prefix: got %q want %q", got.Prefix, want.Prefix)
	}
	if got.Suffix != want.Suffix {
		t.Fatalf("Suffix: got %q want %q", got.Suffix, want.Suffix)
	}
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolPtrValue(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
