// The sweeper is the scheduled trigger for the critical-stock sweep: it
// POSTs /monitor-products on a fixed interval (hourly by default) and
// logs the outcome. It is a separate process so the HTTP service itself
// stays schedule-free.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"same-backend/internal/logger"

	"go.uber.org/zap"
)

type sweepResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EmailsSent int    `json:"emailsSent"`
}

func main() {
	serverURL := getEnv("SERVER_URL", "http://localhost:8080")
	interval, err := time.ParseDuration(getEnv("SWEEP_INTERVAL", "1h"))
	if err != nil || interval < time.Minute {
		log.Fatalf("invalid SWEEP_INTERVAL: %v", os.Getenv("SWEEP_INTERVAL"))
	}
	token := getEnv("MONITOR_TOKEN", "")

	zlog, err := logger.New(getEnv("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 2 * time.Minute}
	zlog.Info("sweeper started",
		zap.String("server", serverURL),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runSweep(ctx, client, zlog, serverURL, token)
		select {
		case <-ctx.Done():
			zlog.Info("sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func runSweep(ctx context.Context, client *http.Client, zlog *zap.Logger, serverURL, token string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(serverURL, "/")+"/monitor-products", nil)
	if err != nil {
		zlog.Error("could not build sweep request", zap.Error(err))
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		zlog.Error("sweep request failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	var body sweepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		zlog.Error("could not decode sweep response",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return
	}

	if !body.Success {
		zlog.Warn("sweep reported failure", zap.String("message", body.Message))
		return
	}
	zlog.Info("sweep finished",
		zap.Int("emails_sent", body.EmailsSent),
		zap.String("message", body.Message),
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
