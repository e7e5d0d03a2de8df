package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"pokedex-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

type catalogServer struct {
	mu      sync.Mutex
	items   []model.Item
	queries []string
}

func newCatalogServer(t *testing.T, n int) (*catalogServer, *httptest.Server) {
	t.Helper()
	cs := &catalogServer{}
	for i := 1; i <= n; i++ {
		cs.items = append(cs.items, model.Item{Number: i, Name: fmt.Sprintf("Mon%03d", i), TypeOne: "Grass", HitPoints: i})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /pokemon", func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		cs.queries = append(cs.queries, r.URL.RawQuery)

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		var match []model.Item
		for _, it := range cs.items {
			if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(s)) {
				continue
			}
			match = append(match, it)
		}
		start := min((page-1)*limit, len(match))
		end := min(start+limit, len(match))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pokemon": match[start:end],
			"total":   len(match),
			"page":    page,
			"limit":   limit,
		})
	})
	mux.HandleFunc("POST /pokemon/{name}/toggle-capture", func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		name := r.PathValue("name")
		for i := range cs.items {
			if cs.items[i].Name == name {
				cs.items[i].Captured = !cs.items[i].Captured
				_ = json.NewEncoder(w).Encode(map[string]any{"name": name, "captured": cs.items[i].Captured})
				return
			}
		}
		http.Error(w, "no such pokemon", http.StatusNotFound)
	})
	mux.HandleFunc("GET /types", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"Fire", "Grass", "Water"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return cs, srv
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("pokedex %v: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data envelope, got %s", stdout)
	}
	return env
}

func baseArgs(t *testing.T, srv *httptest.Server) []string {
	return []string{"--config-dir", t.TempDir(), "--api", srv.URL}
}

func TestList_FetchesOnePage(t *testing.T) {
	t.Parallel()
	cs, srv := newCatalogServer(t, 45)

	env := mustRun(t, append(baseArgs(t, srv), "list", "--page", "2", "--limit", "10")...)
	data := env["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(items))
	}
	if got := items[0].(map[string]any)["name"]; got != "Mon011" {
		t.Fatalf("expected Mon011 first, got %v", got)
	}
	if got := data["total"]; got != float64(45) {
		t.Fatalf("expected total 45, got %v", got)
	}
	if diff := cmp.Diff([]string{"limit=10&order=asc&page=2&sortBy=number"}, cs.queries); diff != "" {
		t.Fatalf("request query (-want +got):\n%s", diff)
	}
}

func TestList_FlagsPatchOverQuery(t *testing.T) {
	t.Parallel()
	cs, srv := newCatalogServer(t, 45)

	mustRun(t, append(baseArgs(t, srv), "list", "--query", "search=mon04&order=desc&page=3", "--order", "asc", "--captured", "false")...)
	want := []string{"captured=false&limit=20&order=asc&page=1&search=mon04&sortBy=number"}
	if diff := cmp.Diff(want, cs.queries); diff != "" {
		t.Fatalf("request query (-want +got):\n%s", diff)
	}
}

func TestList_TableFormat(t *testing.T) {
	t.Parallel()
	_, srv := newCatalogServer(t, 3)

	stdout, stderr, err := runCLI(t, append(baseArgs(t, srv), "--format", "table", "list"))
	if err != nil {
		t.Fatalf("list: %v\n%s", err, stderr)
	}
	out := string(stdout)
	for _, want := range []string{"Name", "Mon001", "Mon003", "Grass"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestExport_MergesAllPages(t *testing.T) {
	t.Parallel()
	cs, srv := newCatalogServer(t, 23)

	env := mustRun(t, append(baseArgs(t, srv), "export", "--limit", "10")...)
	items := env["data"].([]any)
	if len(items) != 23 {
		t.Fatalf("expected 23 items, got %d", len(items))
	}
	if len(cs.queries) != 3 {
		t.Fatalf("expected 3 page requests, got %v", cs.queries)
	}
}

func TestExport_WritesFile(t *testing.T) {
	t.Parallel()
	_, srv := newCatalogServer(t, 12)
	out := filepath.Join(t.TempDir(), "all.json")

	env := mustRun(t, append(baseArgs(t, srv), "export", "--limit", "5", "--max-pages", "2", "--out", out)...)
	res := env["data"].(map[string]any)
	if res["count"] != float64(10) || res["total"] != float64(12) {
		t.Fatalf("unexpected result: %v", res)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		t.Fatalf("unmarshal export: %v\n%s", err, b)
	}
	if len(items) != 10 || items[9].Name != "Mon010" {
		t.Fatalf("unexpected export: %+v", items)
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()
	_, srv := newCatalogServer(t, 3)

	env := mustRun(t, append(baseArgs(t, srv), "toggle", "Mon002")...)
	res := env["data"].(map[string]any)
	if res["name"] != "Mon002" || res["captured"] != true {
		t.Fatalf("unexpected toggle result: %v", res)
	}

	_, stderr, err := runCLI(t, append(baseArgs(t, srv), "toggle", "Missingno"))
	if err == nil {
		t.Fatalf("expected error for unknown name")
	}
	if !strings.Contains(string(stderr), "pokemon not found: Missingno") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestTypes(t *testing.T) {
	t.Parallel()
	_, srv := newCatalogServer(t, 1)

	env := mustRun(t, append(baseArgs(t, srv), "types")...)
	if diff := cmp.Diff([]any{"Fire", "Grass", "Water"}, env["data"]); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
}

func TestConfig_SetAPIThenShow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	env := mustRun(t, "--config-dir", dir, "config", "set-api", "https://dex.example.com")
	res := env["data"].(map[string]any)
	if res["path"] != filepath.Join(dir, "config.yaml") {
		t.Fatalf("unexpected path: %v", res["path"])
	}

	env = mustRun(t, "--config-dir", dir, "config", "show")
	settings := env["data"].(map[string]any)
	if settings["api_url"] != "https://dex.example.com" {
		t.Fatalf("expected saved api_url, got %v", settings["api_url"])
	}
	if settings["config_file"] != filepath.Join(dir, "config.yaml") {
		t.Fatalf("expected config file to be read, got %v", settings["config_file"])
	}

	// Flags still win over the file.
	env = mustRun(t, "--config-dir", dir, "--api", "http://localhost:9999", "config", "show")
	if got := env["data"].(map[string]any)["api_url"]; got != "http://localhost:9999" {
		t.Fatalf("expected flag to win, got %v", got)
	}
}

func TestConfig_RejectsBadAPI(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, []string{"--config-dir", t.TempDir(), "config", "set-api", "ftp://nope"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestWithPageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		size  int
		want  string
	}{
		{"", 20, ""},
		{"", 50, "limit=50"},
		{"?search=pika", 50, "limit=50&search=pika"},
		{"limit=10", 50, "limit=10"},
		{"type=Fire", 0, "type=Fire"},
	}
	for _, tt := range tests {
		if got := withPageSize(tt.query, tt.size); got != tt.want {
			t.Fatalf("withPageSize(%q, %d) = %q, want %q", tt.query, tt.size, got, tt.want)
		}
	}
}

func TestExport_ProgressRedrawIsThrottled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bar := drawProgressBar(&buf, 100)
	for range 50 {
		_ = bar.Add(1)
	}
	if n := strings.Count(buf.String(), "exporting"); n > 2 {
		t.Fatalf("bar drawn %d times for 50 quick updates", n)
	}
}
