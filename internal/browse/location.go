package browse

import "pokedex-cli/internal/model"

// Location is the navigable address: a history of canonical query strings
// with back/forward, standing in for a browser address bar.
type Location struct {
	entries []string
	idx     int

	onChange func(string)
}

// NewLocation starts a history at initial, canonicalized.
func NewLocation(initial string) *Location {
	return &Location{entries: []string{canonical(initial)}}
}

func canonical(raw string) string {
	return model.ParseQuery(raw).Encode()
}

// OnChange registers a hook run after every address change (for mirroring
// the address into the session store).
func (l *Location) OnChange(fn func(string)) {
	l.onChange = fn
}

func (l *Location) Current() string {
	return l.entries[l.idx]
}

// String renders the address as it would appear after a path.
func (l *Location) String() string {
	if cur := l.Current(); cur != "" {
		return "?" + cur
	}
	return ""
}

// Push records a new entry, discarding any forward history. Pushing the
// current address is a no-op.
func (l *Location) Push(q string) {
	if q == l.Current() {
		return
	}
	l.entries = append(l.entries[:l.idx+1], q)
	l.idx++
	l.changed()
}

// Replace overwrites the current entry.
func (l *Location) Replace(q string) {
	if q == l.Current() {
		return
	}
	l.entries[l.idx] = q
	l.changed()
}

func (l *Location) CanBack() bool    { return l.idx > 0 }
func (l *Location) CanForward() bool { return l.idx < len(l.entries)-1 }

func (l *Location) Back() (string, bool) {
	if !l.CanBack() {
		return "", false
	}
	l.idx--
	l.changed()
	return l.Current(), true
}

func (l *Location) Forward() (string, bool) {
	if !l.CanForward() {
		return "", false
	}
	l.idx++
	l.changed()
	return l.Current(), true
}

func (l *Location) changed() {
	if l.onChange != nil {
		l.onChange(l.Current())
	}
}
