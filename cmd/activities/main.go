package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mergington/activities/internal/api"
	"github.com/mergington/activities/internal/config"
	"github.com/mergington/activities/internal/events"
	"github.com/mergington/activities/internal/httpui"
	"github.com/mergington/activities/internal/journal"
	"github.com/mergington/activities/internal/registry"
)

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func serve() int {
	cfg := config.Load()
	initLogger(cfg.LogLevel)

	seed := registry.DefaultSeed()
	if cfg.SeedPath != "" {
		loaded, err := registry.LoadSeed(cfg.SeedPath)
		if err != nil {
			slog.Error("seed file load failed", "path", cfg.SeedPath, "err", err)
			return 1
		}
		seed = loaded
	}
	reg := registry.New(seed)
	eventHub := events.NewHub()

	jnl, err := journal.Open(filepath.Join(cfg.DataDir, "activities.db"))
	if err != nil {
		slog.Error("journal init failed", "err", err)
		return 1
	}

	mux := http.NewServeMux()
	if err := httpui.Register(mux); err != nil {
		slog.Error("frontend init failed", "err", err)
		_ = jnl.Close()
		return 1
	}
	api.Register(mux, reg, eventHub)

	writerCtx, stopWriter := context.WithCancel(context.Background())
	go runJournalWriter(writerCtx, eventHub, jnl)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.JournalSweepSpec, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		removed, err := jnl.Prune(sweepCtx, time.Now().Add(-cfg.JournalRetention))
		if err != nil {
			slog.Warn("journal sweep failed", "err", err)
			return
		}
		slog.Info("journal sweep finished", "removed", removed)
	}); err != nil {
		slog.Warn("invalid journal sweep schedule", "spec", cfg.JournalSweepSpec, "err", err)
	} else {
		sweeper.Start()
	}

	exitCode := run(cfg, mux)

	sweepStop := sweeper.Stop()
	select {
	case <-sweepStop.Done():
	case <-time.After(2 * time.Second):
	}
	stopWriter()
	_ = jnl.Close()
	return exitCode
}

func run(cfg config.Config, mux *http.ServeMux) int {
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      requestLog(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdownCh
		slog.Info("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
	}()

	slog.Info("activities server started",
		"listen", cfg.ListenAddr,
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"seed_file", cfg.SeedPath,
		"journal_retention", cfg.JournalRetention.String(),
		"journal_sweep", cfg.JournalSweepSpec,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		return 1
	}
	slog.Info("activities server stopped")
	return 0
}

// runJournalWriter drains hub events into the sqlite journal. Write failures
// are logged and skipped; the journal is advisory.
func runJournalWriter(ctx context.Context, hub *events.Hub, jnl *journal.Journal) {
	eventsCh, unsubscribe := hub.Subscribe(64)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-eventsCh:
			if !ok {
				return
			}
			var action string
			switch evt.Type {
			case events.TypeSignup:
				action = journal.ActionSignup
			case events.TypeUnregister:
				action = journal.ActionUnregister
			default:
				continue
			}
			activity, _ := evt.Payload["activity"].(string)
			email, _ := evt.Payload["email"].(string)

			writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := jnl.Append(writeCtx, activity, email, action, time.Now()); err != nil {
				slog.Warn("journal append failed", "activity", activity, "action", action, "err", err)
			}
			cancel()
		}
	}
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).Truncate(time.Millisecond))
	})
}

func initLogger(level string) {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))
}
