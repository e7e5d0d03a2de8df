package browse

import (
	"testing"

	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func recordingStore(query string) (*ParamStore, *[]Snapshot) {
	s := NewParamStore(NewLocation(query))
	var got []Snapshot
	s.Subscribe(func(snap Snapshot) tea.Cmd {
		got = append(got, snap)
		return nil
	})
	return s, &got
}

func TestParamStore_NonPagePatchResetsPage(t *testing.T) {
	t.Parallel()

	patches := []model.Patch{
		{model.KeySearch: "char"},
		{model.KeyType: "Fire"},
		{model.KeyCaptured: "true"},
		{model.KeySortBy: "name", model.KeyOrder: "desc"},
		{model.KeyLimit: "50"},
		{model.KeySearch: ""},
	}
	for _, p := range patches {
		s, _ := recordingStore("page=7&search=x")
		s.Patch(p)
		if got := s.Read().Page; got != 1 {
			t.Fatalf("patch %v: page = %d; want 1", p, got)
		}
	}

	s, _ := recordingStore("page=7&search=x")
	s.Patch(model.Patch{model.KeySearch: "y", model.KeyPage: "3"})
	if got := s.Read().Page; got != 3 {
		t.Fatalf("explicit page kept = %d; want 3", got)
	}
}

func TestParamStore_EmptyValueRevertsToDefault(t *testing.T) {
	t.Parallel()

	s, _ := recordingStore("type=Fire&limit=50")
	s.Patch(model.Patch{model.KeyType: "", model.KeyLimit: ""})
	q := s.Read()
	if q.Type != "" || q.Limit != model.DefaultLimit {
		t.Fatalf("params = %+v", q)
	}
	if s.Location().Current() != "" {
		t.Fatalf("address = %q; want empty", s.Location().Current())
	}
}

func TestParamStore_PagePatchIsSynchronous(t *testing.T) {
	t.Parallel()

	s, got := recordingStore("")
	s.Publish()
	s.Patch(model.PageTo(2))

	if len(*got) != 2 || (*got)[1].Params.Page != 2 {
		t.Fatalf("observers = %+v", *got)
	}
	if s.Location().Current() != "page=2" {
		t.Fatalf("address = %q", s.Location().Current())
	}
	if s.Location().CanBack() {
		t.Fatalf("page patch should replace the history entry")
	}
}

func TestParamStore_DeferredPatchesCoalesce(t *testing.T) {
	t.Parallel()

	s, got := recordingStore("")
	s.Publish()

	c1 := s.Patch(model.Patch{model.KeySearch: "c"})
	c2 := s.Patch(model.Patch{model.KeySearch: "ch"})
	c3 := s.Patch(model.Patch{model.KeyType: "Fire"})
	if s.Location().Current() != "search=ch&type=Fire" {
		t.Fatalf("address should update synchronously; got %q", s.Location().Current())
	}
	if !s.Pending() || len(*got) != 1 {
		t.Fatalf("deferred patches delivered early: %+v", *got)
	}

	for _, c := range []tea.Cmd{c1, c2, c3} {
		s.Update(c())
	}
	if len(*got) != 2 {
		t.Fatalf("expected one coalesced delivery; got %d", len(*got)-1)
	}
	last := (*got)[1].Params
	if last.Search != "ch" || last.Type != "Fire" {
		t.Fatalf("delivered %+v", last)
	}
	if s.Pending() {
		t.Fatalf("still pending after flush")
	}
}

func TestParamStore_EqualParamsAreNotRedelivered(t *testing.T) {
	t.Parallel()

	s, got := recordingStore("search=a")
	s.Publish()
	c1 := s.Patch(model.Patch{model.KeySearch: "b"})
	c2 := s.Patch(model.Patch{model.KeySearch: "a"})
	s.Update(c1())
	s.Update(c2())

	if len(*got) != 1 {
		t.Fatalf("a patch that ends where it started should not refetch; got %d deliveries", len(*got))
	}
}

func TestParamStore_Unsubscribe(t *testing.T) {
	t.Parallel()

	s := NewParamStore(NewLocation(""))
	calls := 0
	unsub := s.Subscribe(func(Snapshot) tea.Cmd { calls++; return nil })
	s.Publish()
	unsub()
	s.Patch(model.PageTo(2))
	if calls != 1 {
		t.Fatalf("calls = %d; want 1", calls)
	}
}

func TestParamStore_NavigateCanonicalizes(t *testing.T) {
	t.Parallel()

	s, got := recordingStore("")
	s.Publish()
	s.Navigate("?type=Water&page=0&bogus=1")

	if s.Location().Current() != "type=Water" {
		t.Fatalf("address = %q", s.Location().Current())
	}
	if len(*got) != 2 || (*got)[1].Params.Type != "Water" || (*got)[1].Params.Page != 1 {
		t.Fatalf("observers = %+v", *got)
	}
}

func TestParamStore_HistoryMovesReplaceTheList(t *testing.T) {
	t.Parallel()

	s, got := recordingStore("")
	s.Publish()
	s.Patch(model.PageTo(2))
	s.Update(msgsOf(s.Patch(model.Patch{model.KeyType: "Fire"}))[0])
	s.Back()
	s.Forward()

	want := []bool{false, false, false, true, true}
	if len(*got) != len(want) {
		t.Fatalf("snapshots = %d; want %d", len(*got), len(want))
	}
	for i, snap := range *got {
		if snap.Replace != want[i] {
			t.Fatalf("snapshot %d (%+v): replace = %v; want %v", i, snap.Params, snap.Replace, want[i])
		}
	}
	if (*got)[3].Params.Page != 2 || (*got)[3].Params.Type != "" {
		t.Fatalf("back snapshot = %+v", (*got)[3].Params)
	}
}
