package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/httputil"
	"github.com/matzehuels/flowbox/pkg/observability"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/store"
)

const rowScene = `{
  "name": "row",
  "container": {"width": 50},
  "boxes": [
    {"id": "a", "width": 20, "height": 10},
    {"id": "b", "width": 20, "height": 10},
    {"id": "c", "width": 20, "height": 10}
  ]
}`

const tomlScene = `name = "toml-row"

[container]
width = 100

[[boxes]]
width = 30
height = 10
repeat = 3
`

// memCache is a minimal in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(&memCache{data: make(map[string][]byte)}, nil, nil)
	srv := httptest.NewServer(New(Config{Runner: runner, Store: store.NewMemoryStore()}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func wantError(t *testing.T, resp *http.Response, status int, code errors.Code) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[httputil.ErrorBody](t, resp)
	if body.Error.Code != code {
		t.Errorf("error code = %s, want %s (%s)", body.Error.Code, code, body.Error.Message)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := decode[map[string]string](t, resp); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestLayoutLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/v1/layout", "application/json", rowScene)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decode[LayoutResponse](t, resp)
	if created.ID == "" || created.SceneHash == "" {
		t.Fatalf("created = %+v", created)
	}
	if resp.Header.Get("Location") != "/v1/layouts/"+created.ID {
		t.Errorf("Location = %q", resp.Header.Get("Location"))
	}
	if created.Layout.ID != created.ID || created.Layout.Width != 40 || len(created.Layout.Lines) != 2 {
		t.Errorf("layout = %+v", created.Layout)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[LayoutResponse](t, resp)
	if got.ID != created.ID || len(got.Layout.Blocks) != 3 {
		t.Errorf("get = %+v", got)
	}

	renderURL := srv.URL + "/v1/layouts/" + created.ID + "/render.svg?labels=true"
	resp = do(t, http.MethodGet, renderURL, "", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("render = %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first render X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}
	svg, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("render body is not svg: %.60s", svg)
	}
	if resp = do(t, http.MethodGet, renderURL, "", ""); resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second render X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID+"/render.png?scale=1", "", "")
	png, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("png render = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts", "", "")
	list := decode[ListResponse](t, resp)
	if len(list.Layouts) != 1 || list.Layouts[0].ID != created.ID || list.Layouts[0].Lines != 2 {
		t.Errorf("list = %+v", list)
	}

	if resp = do(t, http.MethodDelete, srv.URL+"/v1/layouts/"+created.ID, "", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	wantError(t, do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID, "", ""), http.StatusNotFound, errors.ErrCodeLayoutNotFound)
}

func TestCreateLayoutFormatsAndOverrides(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/v1/layout", "application/toml", tomlScene)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("toml status = %d", resp.StatusCode)
	}
	created := decode[LayoutResponse](t, resp)
	if created.Layout.Scene != "toml-row" || created.Layout.Width != 90 {
		t.Errorf("toml layout = %+v", created.Layout)
	}

	// Same document again: the layout comes from the cache.
	resp = do(t, http.MethodPost, srv.URL+"/v1/layout?format=toml", "text/plain", tomlScene)
	if again := decode[LayoutResponse](t, resp); !again.Cached || again.SceneHash != created.SceneHash || again.ID == created.ID {
		t.Errorf("second post = %+v", again)
	}

	resp = do(t, http.MethodPost, srv.URL+"/v1/layout?width=45&orientation=horizontal&gravity=center", "", rowScene)
	narrow := decode[LayoutResponse](t, resp)
	if narrow.Layout.Width != 40 || len(narrow.Layout.Lines) != 2 || narrow.Layout.Gravity != "center" {
		t.Errorf("override layout = %+v", narrow.Layout)
	}
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t)
	missing := "0f8fad5b-d9cb-469f-a165-70867728950e"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"empty body", http.MethodPost, "/v1/layout", "", 400, errors.ErrCodeInvalidInput},
		{"bad json", http.MethodPost, "/v1/layout", "{", 400, errors.ErrCodeInvalidScene},
		{"negative size", http.MethodPost, "/v1/layout", `{"boxes": [{"width": -1, "height": 2}]}`, 400, errors.ErrCodeInvalidScene},
		{"bad format", http.MethodPost, "/v1/layout?format=xml", rowScene, 400, errors.ErrCodeInvalidFormat},
		{"bad width", http.MethodPost, "/v1/layout?width=wide", rowScene, 400, errors.ErrCodeInvalidInput},
		{"bad gravity", http.MethodPost, "/v1/layout?gravity=up", rowScene, 400, errors.ErrCodeInvalidInput},
		{"bad id", http.MethodGet, "/v1/layouts/NOT_AN_ID", "", 400, errors.ErrCodeInvalidID},
		{"unknown id", http.MethodGet, "/v1/layouts/" + missing, "", 404, errors.ErrCodeLayoutNotFound},
		{"delete unknown", http.MethodDelete, "/v1/layouts/" + missing, "", 404, errors.ErrCodeLayoutNotFound},
		{"render format", http.MethodGet, "/v1/layouts/" + missing + "/render.gif", "", 400, errors.ErrCodeInvalidFormat},
		{"render unknown", http.MethodGet, "/v1/layouts/" + missing + "/render.svg", "", 404, errors.ErrCodeLayoutNotFound},
		{"render style", http.MethodGet, "/v1/layouts/" + missing + "/render.svg?style=chalk", "", 404, errors.ErrCodeLayoutNotFound},
		{"render scale", http.MethodGet, "/v1/layouts/" + missing + "/render.png?scale=x", "", 400, errors.ErrCodeInvalidInput},
		{"bad limit", http.MethodGet, "/v1/layouts?limit=many", "", 400, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, tt.method, srv.URL+tt.path, "", tt.body), tt.status, tt.code)
		})
	}
}

func TestRenderRejectsStyle(t *testing.T) {
	srv := newTestServer(t)
	created := decode[LayoutResponse](t, do(t, http.MethodPost, srv.URL+"/v1/layout", "", rowScene))

	resp := do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID+"/render.svg?style=chalk", "", "")
	wantError(t, resp, http.StatusBadRequest, errors.ErrCodeInvalidStyle)

	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID+"/render.dot?detailed=true", "", "")
	dot, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(dot), "digraph") {
		t.Errorf("dot render = %d %s", resp.StatusCode, dot)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errs     int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	do(t, http.MethodGet, srv.URL+"/v1/layouts/bad!", "", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
	if hooks.errs != 1 {
		t.Errorf("errors = %d, want 1", hooks.errs)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(Config{}).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}
}
