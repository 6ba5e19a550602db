package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"statsdash/internal/api"
	"statsdash/internal/config"
	"statsdash/internal/dashboard"
	"statsdash/internal/engine"
	"statsdash/internal/selection"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	log.SetLevel(parseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Wire the API. Requests that need data wait for the first load;
	// /api/health answers 503 until it is done.
	cache := engine.NewCache(cfg.Data.IncomePath, cfg.Data.LaborPath)
	sessions := selection.NewRegistry[*dashboard.Session](cfg.Sessions.TTL)
	h := api.NewHandler(cache, sessions, dashboard.Options{
		ScatterYear:   cfg.Charts.ScatterYear,
		DivergingYear: cfg.Charts.DivergingYear,
		MapYears:      cfg.Charts.MapYears,
		TopoURL:       cfg.Charts.TopoURL,
	})
	e := api.NewServer(cfg, h)
	e.Logger.SetLevel(parseLevel(cfg.LogLevel))

	// 2. Load datasets in the background.
	go func() {
		log.Info("BACKGROUND: Loading datasets...")
		t0 := time.Now()
		if _, err := cache.Get(ctx); err != nil {
			log.Errorf("BACKGROUND: load aborted: %v", err)
			return
		}
		log.Infof("BACKGROUND: Datasets loaded in %v. API is fully ready.", time.Since(t0))
	}()

	if cfg.Data.Watch {
		go func() {
			if err := engine.Watch(ctx, cache); err != nil {
				log.Warnf("file watch disabled: %v", err)
			}
		}()
	}

	if cfg.Sessions.TTL > 0 {
		go expireSessions(ctx, sessions, cfg.Sessions.TTL)
	}

	// 3. Serve until interrupted.
	go func() {
		log.Infof("Server ready on %s", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(err)
	}
}

func expireSessions(ctx context.Context, sessions *selection.Registry[*dashboard.Session], ttl time.Duration) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := sessions.Expire(); n > 0 {
				log.Debugf("expired %d idle sessions", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
