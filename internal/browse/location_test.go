package browse

import "testing"

func TestLocation_History(t *testing.T) {
	t.Parallel()

	l := NewLocation("?limit=20&type=Fire")
	var seen []string
	l.OnChange(func(q string) { seen = append(seen, q) })

	if l.Current() != "type=Fire" || l.String() != "?type=Fire" {
		t.Fatalf("initial = %q", l.Current())
	}
	l.Push("type=Fire")
	if l.CanBack() {
		t.Fatalf("pushing the current address should be a no-op")
	}
	l.Push("type=Water")
	l.Push("search=a")
	if q, ok := l.Back(); !ok || q != "type=Water" {
		t.Fatalf("back = %q %v", q, ok)
	}
	l.Push("search=b")
	if l.CanForward() {
		t.Fatalf("push should drop forward history")
	}
	l.Replace("search=c")
	if q, ok := l.Back(); !ok || q != "type=Water" {
		t.Fatalf("back = %q %v", q, ok)
	}
	if q, ok := l.Forward(); !ok || q != "search=c" {
		t.Fatalf("forward = %q %v", q, ok)
	}
	if _, ok := l.Forward(); ok {
		t.Fatalf("forward past the end")
	}

	want := []string{"type=Water", "search=a", "type=Water", "search=b", "search=c", "type=Water", "search=c"}
	if len(seen) != len(want) {
		t.Fatalf("changes = %v; want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("changes = %v; want %v", seen, want)
		}
	}
}

func TestLocation_EmptyAddress(t *testing.T) {
	t.Parallel()

	if s := NewLocation("").String(); s != "" {
		t.Fatalf("String() = %q", s)
	}
}
