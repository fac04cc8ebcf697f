package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"minotes/internal/auth"
	"minotes/internal/config"
	"minotes/internal/mirror"
	"minotes/internal/store"
	"minotes/internal/web"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		slog.Error("create data dir", "err", err)
		os.Exit(1)
	}

	st := store.New(cfg.ContentDir)

	mir, err := mirror.Open(filepath.Join(cfg.DataDir, "mirror.sqlite"))
	if err != nil {
		slog.Error("open mirror", "err", err)
		os.Exit(1)
	}
	defer mir.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := mir.Init(initCtx); err != nil {
		cancel()
		slog.Error("init mirror", "err", err)
		os.Exit(1)
	}
	cancel()

	tiered := store.NewTiered(st, mir, slog.Default())

	admin, err := loadAdmin(cfg)
	if err != nil {
		slog.Error("load admin credentials", "err", err)
		os.Exit(1)
	}
	sessions := auth.NewSessions(admin, cfg.SessionTTL)

	cats, err := web.LoadCategories(filepath.Join(cfg.DataDir, "categories.yaml"))
	if err != nil {
		slog.Error("load categories", "err", err)
		os.Exit(1)
	}

	if cfg.WatchContent {
		watcher, err := mirror.NewWatcher(cfg.ContentDir, mir, slog.Default())
		if err != nil {
			slog.Error("create watcher", "err", err)
			os.Exit(1)
		}
		if err := watcher.Start(ctx); err != nil {
			slog.Error("start watcher", "err", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	server := web.NewServer(cfg, tiered, cats, sessions, slog.Default())
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("listening", "addr", cfg.ListenAddr, "content", cfg.ContentDir)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("serve", "err", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func setupLogging(cfg config.Config) {
	level := parseLogLevel(cfg.LogLevel)
	var handler slog.Handler
	if cfg.LogPretty {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadAdmin prefers an argon2id hash file written by cmd/admin-passwd and
// falls back to a plain NOTES_ADMIN_PASS for dev setups.
func loadAdmin(cfg config.Config) (auth.Admin, error) {
	admin := auth.Admin{Email: cfg.AdminEmail, Plain: cfg.AdminPass}
	if admin.Email == "" {
		return auth.Admin{}, errors.New("NOTES_ADMIN_EMAIL is required")
	}

	hashPath := cfg.AdminPassFile
	if hashPath == "" {
		hashPath = filepath.Join(cfg.DataDir, "admin.passwd")
	}
	data, err := os.ReadFile(hashPath)
	if errors.Is(err, os.ErrNotExist) {
		if admin.Plain == "" {
			return auth.Admin{}, errors.New("no admin password: set NOTES_ADMIN_PASS or run cmd/admin-passwd")
		}
		return admin, nil
	}
	if err != nil {
		return auth.Admin{}, err
	}
	hash, err := auth.ParseArgon2idHash(strings.TrimSpace(string(data)))
	if err != nil {
		return auth.Admin{}, err
	}
	admin.Hash = hash
	admin.Plain = ""
	return admin, nil
}
