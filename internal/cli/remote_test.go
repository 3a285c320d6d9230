package cli

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/flowbox/internal/server"
	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/store"
)

// remoteFixture runs an API server backed by a store the test can inspect.
func remoteFixture(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	st := store.NewMemoryStore()
	ts := httptest.NewServer(server.New(server.Config{Store: st}).Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := testCLI().RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func onlyRecord(t *testing.T, st *store.MemoryStore) store.Record {
	t.Helper()
	recs, err := st.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("store holds %d records, want 1", len(recs))
	}
	return recs[0]
}

func TestRemoteLifecycle(t *testing.T) {
	ts, st := remoteFixture(t)
	dir := t.TempDir()
	input := writeScene(t, dir, "bar.toml", barTOML)

	if err := execute(t, "remote", "create", input, "--server", ts.URL, "--width", "70"); err != nil {
		t.Fatalf("remote create: %v", err)
	}
	rec := onlyRecord(t, st)
	if rec.Layout.Width != 60 || len(rec.Layout.Lines) != 1 {
		t.Errorf("stored layout = %dx%d with %d lines, want width 60 and 1 line",
			rec.Layout.Width, rec.Layout.Height, len(rec.Layout.Lines))
	}

	layoutOut := filepath.Join(dir, "remote.layout.json")
	if err := execute(t, "remote", "get", rec.ID, "--server", ts.URL, "-o", layoutOut); err != nil {
		t.Fatalf("remote get: %v", err)
	}
	got, err := layoutfile.ReadFile(layoutOut)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != rec.Layout.Width || len(got.Blocks) != 3 {
		t.Errorf("downloaded layout = %+v", got)
	}

	svgOut := filepath.Join(dir, "remote.svg")
	if err := execute(t, "remote", "render", rec.ID, "--server", ts.URL, "-f", "svg", "-o", svgOut); err != nil {
		t.Fatalf("remote render: %v", err)
	}
	if data, err := os.ReadFile(svgOut); err != nil || len(data) == 0 {
		t.Errorf("rendered svg = %d bytes, %v", len(data), err)
	}

	if err := execute(t, "remote", "delete", rec.ID, "--server", ts.URL); err != nil {
		t.Fatalf("remote delete: %v", err)
	}
	if _, err := st.Get(context.Background(), rec.ID); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Get after delete = %v, want LAYOUT_NOT_FOUND", err)
	}
}

func TestRemoteErrors(t *testing.T) {
	ts, _ := remoteFixture(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"scene without extension", []string{"remote", "create", writeScene(t, dir, "bar", barTOML)}, errors.ErrCodeInvalidFormat},
		{"missing scene", []string{"remote", "create", filepath.Join(dir, "missing.toml")}, errors.ErrCodeFileNotFound},
		{"invalid scene", []string{"remote", "create", writeScene(t, dir, "bad.json", `{"boxes": [{"width": -1}]}`)}, errors.ErrCodeInvalidScene},
		{"bad id", []string{"remote", "get", "NOT-AN-ID"}, errors.ErrCodeInvalidID},
		{"unknown id", []string{"remote", "get", "0123456789abcdef"}, errors.ErrCodeLayoutNotFound},
		{"bad format", []string{"remote", "render", "0123456789abcdef", "-f", "gif"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--server", ts.URL, "--no-cache")
			if err := execute(t, args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRemoteBase(t *testing.T) {
	ts, st := remoteFixture(t)
	c := testCLI()
	ctx := context.Background()
	cl, err := c.newClient(&remoteOpts{server: ts.URL})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		scene string
		want  func(id string) string
	}{
		{"scene name", "toolbar", func(string) string { return "toolbar" }},
		{"traversal falls back to id", "../escape", func(id string) string { return id }},
		{"absolute falls back to id", "/etc/flowbox", func(id string) string { return id }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := st.Save(ctx, "hash", layoutfile.Layout{Scene: tt.scene, Width: 10, Height: 10})
			if err != nil {
				t.Fatal(err)
			}
			if got := c.remoteBase(ctx, cl, rec.ID); got != tt.want(rec.ID) {
				t.Errorf("remoteBase() = %q, want %q", got, tt.want(rec.ID))
			}
		})
	}
}
