package cli

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/store"
)

func TestLocalURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://localhost:9000"},
		{"bogus", "http://localhost:8080"},
	}
	for _, tt := range tests {
		if got := localURL(tt.addr); got != tt.want {
			t.Errorf("localURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestServeBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := testCLI()
	ctx := context.Background()

	lc, err := c.serveCache(ctx, serveOpts{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lc.(*cache.NullCache); !ok {
		t.Errorf("--no-cache cache = %T, want *cache.NullCache", lc)
	}

	lc, err = c.serveCache(ctx, serveOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lc.(*cache.FileCache); !ok {
		t.Errorf("default cache = %T, want *cache.FileCache", lc)
	}

	st, err := c.serveStore(ctx, serveOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("default store = %T, want *store.MemoryStore", st)
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- testCLI().runServe(ctx, serveOpts{addr: "127.0.0.1:0", noCache: true})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe() did not return after cancel")
	}
}
