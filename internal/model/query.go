package model

import (
	"net/url"
	"strconv"
	"strings"
)

// Canonical query-string keys.
const (
	KeyPage     = "page"
	KeySearch   = "search"
	KeyType     = "type"
	KeyCaptured = "captured"
	KeySortBy   = "sortBy"
	KeyOrder    = "order"
	KeyLimit    = "limit"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Tristate is the captured filter: unconstrained, captured only, or uncaptured only.
type Tristate int

const (
	CapturedAny Tristate = iota
	CapturedYes
	CapturedNo
)

// String returns the query-string form ("" for unconstrained).
func (t Tristate) String() string {
	switch t {
	case CapturedYes:
		return "true"
	case CapturedNo:
		return "false"
	default:
		return ""
	}
}

// Bool maps the tri-state onto the wire: nil means "omit the parameter".
func (t Tristate) Bool() *bool {
	switch t {
	case CapturedYes:
		v := true
		return &v
	case CapturedNo:
		v := false
		return &v
	default:
		return nil
	}
}

func parseTristate(s string) Tristate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return CapturedYes
	case "false":
		return CapturedNo
	default:
		return CapturedAny
	}
}

type SortField string

const (
	SortByNumber SortField = "number"
	SortByName   SortField = "name"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// QueryParams is the canonical filter/sort/pagination state. It is a value:
// callers replace it wholesale and never mutate a shared copy.
type QueryParams struct {
	Page     int
	Search   string
	Type     string
	Captured Tristate
	SortBy   SortField
	Order    SortOrder
	Limit    int
}

func DefaultQuery() QueryParams {
	return QueryParams{
		Page:   DefaultPage,
		SortBy: SortByNumber,
		Order:  OrderAsc,
		Limit:  DefaultLimit,
	}
}

// ParseQuery parses a query string (with or without a leading '?').
// Parsing never fails: malformed pairs are skipped, and missing or invalid
// values fall back to their defaults.
func ParseQuery(raw string) QueryParams {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	// url.ParseQuery keeps every well-formed pair even when it reports an error.
	v, _ := url.ParseQuery(raw)
	return QueryFromValues(v)
}

func QueryFromValues(v url.Values) QueryParams {
	q := DefaultQuery()
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(KeyPage))); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(KeyLimit))); err == nil && n >= 1 {
		q.Limit = n
	}
	q.Search = v.Get(KeySearch)
	q.Type = v.Get(KeyType)
	q.Captured = parseTristate(v.Get(KeyCaptured))
	switch SortField(v.Get(KeySortBy)) {
	case SortByName:
		q.SortBy = SortByName
	}
	switch SortOrder(strings.ToLower(v.Get(KeyOrder))) {
	case OrderDesc:
		q.Order = OrderDesc
	}
	return q
}

// Values returns the canonical form: default-valued fields are omitted.
func (q QueryParams) Values() url.Values {
	v := url.Values{}
	if q.Page > DefaultPage {
		v.Set(KeyPage, strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set(KeySearch, q.Search)
	}
	if q.Type != "" {
		v.Set(KeyType, q.Type)
	}
	if s := q.Captured.String(); s != "" {
		v.Set(KeyCaptured, s)
	}
	if q.SortBy != "" && q.SortBy != SortByNumber {
		v.Set(KeySortBy, string(q.SortBy))
	}
	if q.Order != "" && q.Order != OrderAsc {
		v.Set(KeyOrder, string(q.Order))
	}
	if q.Limit >= 1 && q.Limit != DefaultLimit {
		v.Set(KeyLimit, strconv.Itoa(q.Limit))
	}
	return v
}

// Encode serializes q with keys in sorted order. The all-default value
// encodes to "".
func (q QueryParams) Encode() string {
	return q.Values().Encode()
}

// Filters returns q with pagination stripped; two params with equal filters
// describe the same result set.
func (q QueryParams) Filters() QueryParams {
	q.Page = DefaultPage
	return q
}

// Patch is a sparse update keyed by canonical query keys. An empty value
// removes the key, reverting that field to its default.
type Patch map[string]string

func PageTo(n int) Patch {
	return Patch{KeyPage: strconv.Itoa(n)}
}

func (p Patch) HasPage() bool {
	_, ok := p[KeyPage]
	return ok
}

// PageOnly reports whether p is a pure pagination patch.
func (p Patch) PageOnly() bool {
	return len(p) == 1 && p.HasPage()
}

// Apply merges p over q. A patch that does not name the page restarts
// pagination from page 1.
func (q QueryParams) Apply(p Patch) QueryParams {
	v := q.Values()
	for k, val := range p {
		if val == "" {
			v.Del(k)
			continue
		}
		v.Set(k, val)
	}
	if !p.HasPage() {
		v.Del(KeyPage)
	}
	return QueryFromValues(v)
}

// SortPreset is one of the combined sort choices offered by the UI.
type SortPreset struct {
	Label  string
	SortBy SortField
	Order  SortOrder
}

var SortPresets = []SortPreset{
	{Label: "Low-High", SortBy: SortByNumber, Order: OrderAsc},
	{Label: "High-Low", SortBy: SortByNumber, Order: OrderDesc},
	{Label: "A-Z", SortBy: SortByName, Order: OrderAsc},
	{Label: "Z-A", SortBy: SortByName, Order: OrderDesc},
}

// LimitPresets are the page sizes offered by the UI.
var LimitPresets = []int{10, 20, 50, 100}

// ListRequest is the wire shape of one list fetch.
type ListRequest struct {
	Page     int
	Limit    int
	Search   string
	Type     string
	Captured *bool
	SortBy   SortField
	Order    SortOrder
}

// Request maps q onto a list request for exactly one page.
func (q QueryParams) Request() ListRequest {
	return ListRequest{
		Page:     q.Page,
		Limit:    q.Limit,
		Search:   q.Search,
		Type:     q.Type,
		Captured: q.Captured.Bool(),
		SortBy:   q.SortBy,
		Order:    q.Order,
	}
}

func (r ListRequest) Values() url.Values {
	v := url.Values{}
	v.Set(KeyPage, strconv.Itoa(r.Page))
	v.Set(KeyLimit, strconv.Itoa(r.Limit))
	if r.Search != "" {
		v.Set(KeySearch, r.Search)
	}
	if r.Type != "" {
		v.Set(KeyType, r.Type)
	}
	if r.Captured != nil {
		v.Set(KeyCaptured, strconv.FormatBool(*r.Captured))
	}
	if r.SortBy != "" {
		v.Set(KeySortBy, string(r.SortBy))
	}
	if r.Order != "" {
		v.Set(KeyOrder, string(r.Order))
	}
	return v
}
