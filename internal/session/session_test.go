package session

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.sqlite")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_ScrollOffset_RoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := openTemp(t)

	if _, ok, err := s.ScrollOffset(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	for _, off := range []int{120, 0, 37} {
		if err := s.SetScrollOffset(off); err != nil {
			t.Fatalf("SetScrollOffset(%d): %v", off, err)
		}
		got, ok, err := s.ScrollOffset()
		if err != nil || !ok || got != off {
			t.Fatalf("ScrollOffset = %d %v %v; want %d", got, ok, err, off)
		}
	}
}

func TestStore_NegativeOffsetClamps(t *testing.T) {
	t.Parallel()

	s, _ := openTemp(t)
	if err := s.SetScrollOffset(-5); err != nil {
		t.Fatalf("SetScrollOffset: %v", err)
	}
	if got, ok, _ := s.ScrollOffset(); !ok || got != 0 {
		t.Fatalf("ScrollOffset = %d %v", got, ok)
	}
}

func TestStore_CorruptOffsetReadsAsMissing(t *testing.T) {
	t.Parallel()

	s, _ := openTemp(t)
	if err := s.set(keyScrollOffset, "not-a-number"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := s.ScrollOffset(); ok || err != nil {
		t.Fatalf("corrupt value: ok=%v err=%v", ok, err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	s, path := openTemp(t)
	if err := s.SetLastQuery("search=char&type=Fire"); err != nil {
		t.Fatalf("SetLastQuery: %v", err)
	}
	if err := s.SetScrollOffset(9); err != nil {
		t.Fatalf("SetScrollOffset: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	q, err := s2.LastQuery()
	if err != nil || q != "search=char&type=Fire" {
		t.Fatalf("LastQuery = %q %v", q, err)
	}
	if off, ok, _ := s2.ScrollOffset(); !ok || off != 9 {
		t.Fatalf("ScrollOffset = %d %v", off, ok)
	}
}
