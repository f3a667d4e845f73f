package poll_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/netigo/netigo-go/internal/poll"

	"go.uber.org/zap"
)

// fakeServer serves /api/ping and /api/version with a settable counter.
type fakeServer struct {
	version atomic.Int64
	pings   atomic.Int64
	failing atomic.Bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if f.failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		f.pings.Add(1)
		fmt.Fprint(w, `{"success":true}`)
	})
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if f.failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"version":%d}`, f.version.Load())
	})
	return mux
}

func TestWatcher_TriggersRefetchOnBump(t *testing.T) {
	fs := &fakeServer{}
	fs.version.Store(1)
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	var mu sync.Mutex
	var seen []int64
	w := poll.NewWatcher(srv.Client(), srv.URL, "test-token", 10*time.Millisecond, func(v int64) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 1
	}, "initial refetch")

	fs.version.Store(5)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2 && seen[len(seen)-1] == 5
	}, "refetch after bump")

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if seen[0] != 1 {
		t.Errorf("first observed version = %d, want 1", seen[0])
	}
	if fs.pings.Load() == 0 {
		t.Error("expected presence pings to be sent")
	}
}

func TestWatcher_RestartDecreaseTreatedAsChanged(t *testing.T) {
	fs := &fakeServer{}
	fs.version.Store(40)
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	var mu sync.Mutex
	var seen []int64
	w := poll.NewWatcher(srv.Client(), srv.URL, "test-token", 10*time.Millisecond, func(v int64) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 1
	}, "initial refetch")

	// Simulated restart: counter drops back to 1.
	fs.version.Store(1)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2 && seen[len(seen)-1] == 1
	}, "refetch after restart-induced decrease")
}

func TestWatcher_FailedTicksRetryNextTick(t *testing.T) {
	fs := &fakeServer{}
	fs.version.Store(3)
	fs.failing.Store(true)
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	var calls atomic.Int64
	w := poll.NewWatcher(srv.Client(), srv.URL, "test-token", 10*time.Millisecond, func(v int64) {
		calls.Add(1)
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// While failing, no refetch fires.
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("expected no refetch while server failing, got %d", calls.Load())
	}

	// Recovery: the next tick picks the version up without restart.
	fs.failing.Store(false)
	waitFor(t, func() bool { return calls.Load() >= 1 }, "refetch after recovery")
	if got := w.LastSeen(); got != 3 {
		t.Errorf("last seen = %d, want 3", got)
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
