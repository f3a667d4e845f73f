// netigo-watch is a small terminal client for the dashboard API. It logs in,
// polls the change counter, and re-fetches the ledger views whenever any
// user mutates data. Useful for watching a shared board from a shell.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netigo/netigo-go/internal/poll"

	"go.uber.org/zap"
)

func main() {
	var (
		baseURL  = flag.String("url", envOr("NETIGO_URL", "http://localhost:3000"), "dashboard base URL")
		username = flag.String("user", envOr("NETIGO_USER", "admin"), "username")
		password = flag.String("pass", envOr("NETIGO_PASS", ""), "password")
		interval = flag.Duration("interval", 5*time.Second, "poll interval")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *password == "" {
		logger.Fatal("password required (set NETIGO_PASS or -pass)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(ctx, client, *baseURL, *username, *password)
	if err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}
	logger.Info("logged in", zap.String("username", *username), zap.String("url", *baseURL))

	onChange := func(version int64) {
		logger.Info("data changed, re-fetching views", zap.Int64("version", version))
		for _, path := range []string{"/api/transactions", "/api/notes", "/api/recurring"} {
			n, err := fetchCount(ctx, client, *baseURL, token, path)
			if err != nil {
				logger.Warn("fetch failed", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("fetched", zap.String("path", path), zap.Int("items", n))
		}
	}

	w := poll.NewWatcher(client, *baseURL, token, *interval, onChange, logger)
	w.Run(ctx)

	logger.Info("watcher stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func login(ctx context.Context, client *http.Client, baseURL, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	return body.Token, nil
}

// fetchCount GETs a list endpoint and returns how many items came back.
func fetchCount(ctx context.Context, client *http.Client, baseURL, token, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return len(items), nil
}
