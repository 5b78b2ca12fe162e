package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/pharma-pulse/app/api"
	"github.com/lysyi3m/pharma-pulse/app/cache"
	"github.com/lysyi3m/pharma-pulse/app/cfg"
	"github.com/lysyi3m/pharma-pulse/app/feed"
	"github.com/lysyi3m/pharma-pulse/app/news"
	"github.com/lysyi3m/pharma-pulse/app/newsapi"
	"github.com/lysyi3m/pharma-pulse/app/reader"
	"github.com/lysyi3m/pharma-pulse/app/tasks"
	"golang.org/x/sync/errgroup"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(appCfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting Pharma Pulse server", "version", appCfg.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := newsapi.DefaultProfile()
	if appCfg.ProfilePath != "" {
		loaded, err := newsapi.LoadProfile(appCfg.ProfilePath)
		if err != nil {
			return fmt.Errorf("failed to load query profile: %w", err)
		}
		profile = loaded
		slog.Info("Query profile loaded", "path", appCfg.ProfilePath)
	}

	provider := newsapi.NewClient(newsapi.Options{
		Endpoint:  appCfg.NewsAPIURL,
		APIKey:    appCfg.NewsAPIKey,
		UserAgent: appCfg.UserAgent,
		Timeout:   appCfg.FetchTimeoutDuration(),
		Profile:   profile,
	})

	responseCache, err := newCache(ctx, appCfg.RedisURL, appCfg.ProxyCacheTTLDuration())
	if err != nil {
		return err
	}
	defer responseCache.Close()

	slog.Info("Starting task scheduler", "workers", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(tasks.Options{WorkerCount: appCfg.WorkerCount})
	scheduler.Start()
	defer scheduler.Stop()

	registry := news.NewRegistry(news.RegistryOptions{
		Provider:        provider,
		SessionTTL:      appCfg.SessionTTLDuration(),
		RefreshInterval: appCfg.RefreshIntervalDuration(),
		OnTick: func(s *news.Session) {
			if err := scheduler.EnqueueTask(tasks.NewRefreshFeedTask(s)); err != nil {
				slog.Warn("Failed to enqueue auto-refresh, fetching inline", "session", s.ID, "error", err)
				go s.Refresh(context.Background())
			}
		},
	})
	defer registry.Close()

	handler := api.NewHandler(api.HandlerOptions{
		Proxy:     provider,
		Cache:     responseCache,
		CacheTTL:  appCfg.ProxyCacheTTLDuration(),
		Registry:  registry,
		Scheduler: scheduler,
		Extractor: reader.NewExtractor(reader.Options{
			UserAgent: appCfg.UserAgent,
			Timeout:   appCfg.FetchTimeoutDuration(),
		}),
		Contents:  reader.NewStore(nil),
		Generator: feed.NewGenerator(appCfg.Version),
		BaseURL:   appCfg.BaseUrl,
		Version:   appCfg.Version,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.Debug),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		registry.Run(gctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	})

	err = g.Wait()
	slog.Info("Pharma Pulse server shutdown complete")
	return err
}

// newCache connects to Redis when a URL is configured and falls back to an
// in-process cache otherwise.
func newCache(ctx context.Context, redisURL string, ttl time.Duration) (cache.CacheInterface, error) {
	if redisURL == "" {
		slog.Info("Using in-memory response cache")
		return cache.NewMemory(cache.DefaultMemorySize, ttl), nil
	}

	return cache.NewRedis(ctx, redisURL, "pharma-pulse")
}
