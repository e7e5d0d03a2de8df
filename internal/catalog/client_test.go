package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"pokedex-cli/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL, HTTPClient: srv.Client(), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_List_EncodesRequestAndDecodesOriginalShape(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing X-Request-Id")
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pokemon":[{"number":25,"name":"Pikachu","type_one":"Electric","type_two":null,"hit_points":35,"attack":55,"defense":40,"speed":90,"captured":false}],"total":1,"page":2,"limit":20}`))
	}))

	q := model.ParseQuery("page=2&type=Electric&captured=false")
	page, err := c.List(context.Background(), q.Request())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := "captured=false&limit=20&order=asc&page=2&sortBy=number&type=Electric"; gotQuery != want {
		t.Fatalf("query: got %q want %q", gotQuery, want)
	}
	want := model.Page{
		Items: []model.Item{{Number: 25, Name: "Pikachu", TypeOne: "Electric", HitPoints: 35, Attack: 55, Defense: 40, Speed: 90}},
		Total: 1, Page: 2, Limit: 20,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_List_DecodesItemsKey(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"name":"Eevee"}],"total":7,"page":1,"limit":1}`))
	}))
	page, err := c.List(context.Background(), model.DefaultQuery().Request())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Eevee" || page.Total != 7 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestClient_List_StatusError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	_, err := c.List(context.Background(), model.DefaultQuery().Request())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError || !strings.Contains(se.Error(), "boom") {
		t.Fatalf("unexpected error: %v", se)
	}
}

func TestClient_List_DoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	if _, err := c.List(context.Background(), model.DefaultQuery().Request()); err == nil {
		t.Fatalf("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("list must not retry: %d calls", n)
	}
}

func TestClient_ToggleCapture(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if r.URL.EscapedPath() != "/pokemon/Mr.%20Mime/toggle-capture" {
			t.Errorf("path: got %q", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"name":"Mr. Mime","captured":true}`))
	}))
	res, err := c.ToggleCapture(context.Background(), "Mr. Mime")
	if err != nil {
		t.Fatalf("ToggleCapture: %v", err)
	}
	if res.Name != "Mr. Mime" || res.Captured == nil || !*res.Captured {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_ToggleCapture_EmptyBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	res, err := c.ToggleCapture(context.Background(), "Ditto")
	if err != nil {
		t.Fatalf("ToggleCapture: %v", err)
	}
	if res.Name != "Ditto" || res.Captured != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_Types_RetriesAndCaches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`["Bug","Dragon","Electric"]`))
	}))

	for i := 0; i < 3; i++ {
		got, err := c.Types(context.Background())
		if err != nil {
			t.Fatalf("Types: %v", err)
		}
		if diff := cmp.Diff([]string{"Bug", "Dragon", "Electric"}, got); diff != "" {
			t.Fatalf("types mismatch (-want +got):\n%s", diff)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected one retry then cache hits, got %d calls", n)
	}
}

func TestNew_RejectsBadScheme(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClient_IconURL(t *testing.T) {
	t.Parallel()

	c, err := New(Options{BaseURL: "http://localhost:8080/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := c.IconURL("VenusaurMega Venusaur"), "http://localhost:8080/icon/venusaur"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
