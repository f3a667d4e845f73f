// Package poll implements the dashboard polling contract: on a fixed
// interval, ping the server to mark the caller online, fetch the change
// counter, and trigger a full re-fetch whenever it moved. The counter is a
// coarse invalidation signal, not a diff: any mutation by any user
// invalidates every cached view.
package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Watcher polls the version endpoint and invokes OnChange when the
// observed counter differs from the last seen value. A decrease means the
// server restarted and is treated as "everything changed". Failed ticks
// are logged and retried on the next tick; no backoff, no retry cap.
type Watcher struct {
	client   *http.Client
	baseURL  string
	token    string
	interval time.Duration
	logger   *zap.Logger

	lastSeen atomic.Int64
	onChange func(version int64)
}

// NewWatcher creates a watcher against baseURL using the given bearer token.
func NewWatcher(client *http.Client, baseURL, token string, interval time.Duration, onChange func(version int64), logger *zap.Logger) *Watcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Watcher{
		client:   client,
		baseURL:  baseURL,
		token:    token,
		interval: interval,
		logger:   logger,
		onChange: onChange,
	}
}

// Run polls until ctx is cancelled. The first tick fires immediately.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// LastSeen returns the most recently observed counter value.
func (w *Watcher) LastSeen() int64 {
	return w.lastSeen.Load()
}

func (w *Watcher) tick(ctx context.Context) {
	if err := w.ping(ctx); err != nil {
		w.logger.Warn("presence ping failed", zap.Error(err))
	}

	fetched, err := w.fetchVersion(ctx)
	if err != nil {
		w.logger.Warn("version poll failed", zap.Error(err))
		return
	}

	if fetched == w.lastSeen.Load() {
		return
	}
	// fetched > lastSeen: something changed. fetched < lastSeen: the server
	// restarted and its counter reset, so treat everything as changed.
	w.lastSeen.Store(fetched)
	w.onChange(fetched)
}

func (w *Watcher) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (w *Watcher) fetchVersion(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/api/version", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("version: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Version int64 `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode version: %w", err)
	}
	return body.Version, nil
}
