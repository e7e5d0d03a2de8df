// Package catalog is the HTTP client for the remote catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokedex-cli/internal/model"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "http://localhost:8080"
	DefaultCollection = "pokemon"
	DefaultTypesPath  = "types"

	// The service recomputes its dataset at most once a minute; caching the
	// type list for longer than that only hides new categories.
	defaultTypesTTL = 60 * time.Second

	maxErrorBody = 4 << 10
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL    string
	Collection string
	TypesPath  string

	// Timeout bounds every request; 0 means no client-side timeout.
	Timeout time.Duration

	// RatePerSec caps outbound requests; 0 disables the limiter.
	RatePerSec float64
	Burst      int

	TypesTTL time.Duration

	// HTTPClient overrides the transport (tests use httptest clients).
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// Client talks to the catalog service. It is safe for concurrent use: list
// and toggle commands run on bubbletea's command goroutines.
type Client struct {
	baseURL    *url.URL
	collection string
	typesPath  string

	http     *http.Client
	retrying *http.Client
	limiter  *rate.Limiter
	types    *expirable.LRU[string, []string]

	log zerolog.Logger
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if b := strings.TrimSpace(e.Body); b != "" {
		msg += ": " + b
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	collection := strings.Trim(strings.TrimSpace(opts.Collection), "/")
	if collection == "" {
		collection = DefaultCollection
	}
	typesPath := strings.Trim(strings.TrimSpace(opts.TypesPath), "/")
	if typesPath == "" {
		typesPath = DefaultTypesPath
	}
	ttl := opts.TypesTTL
	if ttl <= 0 {
		ttl = defaultTypesTTL
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Timeout > 0 {
		cp := *hc
		cp.Timeout = opts.Timeout
		hc = &cp
	}

	// Only the types lookup retries. A failed list fetch is reported and left
	// for the user to re-trigger, and toggle-capture is a flip on the server,
	// so replaying it could undo itself.
	rc := retryablehttp.NewClient()
	rc.HTTPClient = hc
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = retryLogger{log: opts.Logger}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}

	return &Client{
		baseURL:    u,
		collection: collection,
		typesPath:  typesPath,
		http:       hc,
		retrying:   rc.StandardClient(),
		limiter:    limiter,
		types:      expirable.NewLRU[string, []string](1, nil, ttl),
		log:        opts.Logger,
	}, nil
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// IconURL is the sprite redirect endpoint for an item.
func (c *Client) IconURL(name string) string {
	return c.endpoint("icon/"+url.PathEscape(model.IconSlug(name)), nil)
}

// endpoint joins an already-escaped path onto the base URL.
func (c *Client) endpoint(escapedPath string, q url.Values) string {
	u := c.baseURL.JoinPath(escapedPath)
	u.RawQuery = q.Encode()
	return u.String()
}

// List fetches one page. Errors are never retried here.
func (c *Client) List(ctx context.Context, req model.ListRequest) (model.Page, error) {
	var wire wirePage
	if err := c.do(ctx, c.http, http.MethodGet, c.collection, req.Values(), &wire); err != nil {
		return model.Page{}, err
	}
	return wire.page(), nil
}

// ToggleCapture flips the captured flag of one item on the server.
func (c *Client) ToggleCapture(ctx context.Context, name string) (model.ToggleResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ToggleResult{}, errors.New("toggle capture: missing name")
	}
	path := c.collection + "/" + url.PathEscape(name) + "/toggle-capture"
	var res model.ToggleResult
	if err := c.do(ctx, c.http, http.MethodPost, path, nil, &res); err != nil {
		return model.ToggleResult{}, err
	}
	if res.Name == "" {
		res.Name = name
	}
	return res, nil
}

// Types returns the distinct category names, cached for the service's
// recompute window.
func (c *Client) Types(ctx context.Context) ([]string, error) {
	if v, ok := c.types.Get(c.typesPath); ok {
		return append([]string(nil), v...), nil
	}
	var out []string
	if err := c.do(ctx, c.retrying, http.MethodGet, c.typesPath, nil, &out); err != nil {
		return nil, err
	}
	c.types.Add(c.typesPath, out)
	return append([]string(nil), out...), nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	reqID := uuid.NewString()
	target := c.endpoint(path, q)
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s /%s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("catalog request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: "/" + path, StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s /%s: read body: %w", method, path, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s /%s: decode: %w", method, path, err)
	}
	return nil
}

// wirePage accepts both the generic "items" key and the original service's
// "pokemon" key.
type wirePage struct {
	Items   []model.Item `json:"items"`
	Pokemon []model.Item `json:"pokemon"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

func (w wirePage) page() model.Page {
	items := w.Items
	if items == nil {
		items = w.Pokemon
	}
	if items == nil {
		items = []model.Item{}
	}
	return model.Page{Items: items, Total: w.Total, Page: w.Page, Limit: w.Limit}
}

// retryLogger adapts retryablehttp's leveled logger onto zerolog.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
