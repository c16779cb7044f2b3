// Command server exposes the extractor over HTTP: synchronous one-off
// scrapes plus lookups of previously stored rows.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/steamdbtools/steamdb-scraper/internal/api"
	"github.com/steamdbtools/steamdb-scraper/internal/browser"
	"github.com/steamdbtools/steamdb-scraper/internal/config"
	"github.com/steamdbtools/steamdb-scraper/internal/database"
	"github.com/steamdbtools/steamdb-scraper/internal/logging"
	"github.com/steamdbtools/steamdb-scraper/internal/parser"
	"github.com/steamdbtools/steamdb-scraper/internal/ratelimit"
	"github.com/steamdbtools/steamdb-scraper/internal/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database is optional; without it only /api/v1/scrape works.
	var (
		store api.AppStore
		sinks []scraper.RowSink
	)
	db, dbErr := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
	})
	if dbErr != nil {
		logger.Warn("running without database", "error", dbErr)
	} else {
		defer db.Close()
		store = db
		sinks = append(sinks, db)
	}

	opts := browser.DefaultOptions()
	opts.Headless = cfg.Scraper.Headless
	opts.Timeout = time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second

	b, err := browser.New(opts)
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	pages, err := parser.NewPageParser()
	if err != nil {
		logger.Error("failed to build page parser", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(
		time.Duration(cfg.Scraper.DelayMinSeconds)*time.Second,
		time.Duration(cfg.Scraper.DelayMaxSeconds)*time.Second,
		cfg.Scraper.BlockSize,
		time.Duration(cfg.Scraper.BlockPauseMinutes)*time.Minute,
	)

	svc := scraper.New(b, pages, limiter, sinks...)

	handlers := api.NewHandlers(svc, store, logger)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
