// Command charts fetches the SteamDB charts listing, expands it to the
// full ranked set and exports every row to CSV. With -db the snapshot
// is also upserted into Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/steamdbtools/steamdb-scraper/internal/browser"
	"github.com/steamdbtools/steamdb-scraper/internal/config"
	"github.com/steamdbtools/steamdb-scraper/internal/database"
	"github.com/steamdbtools/steamdb-scraper/internal/logging"
	"github.com/steamdbtools/steamdb-scraper/internal/models"
	"github.com/steamdbtools/steamdb-scraper/internal/parser"
	"github.com/steamdbtools/steamdb-scraper/internal/storage"
)

func main() {
	var (
		output   = flag.String("output", "", "charts CSV path (default from OUTPUT_CHARTS)")
		headless = flag.Bool("headless", true, "run the browser headless")
		useDB    = flag.Bool("db", false, "also upsert the snapshot into Postgres")
		skipBad  = flag.Bool("skip-bad", false, "skip malformed rows instead of stopping at the first one")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format).With("component", "charts")
	slog.SetDefault(logger)

	path := cfg.Output.ChartsPath
	if *output != "" {
		path = *output
	}

	opts := browser.DefaultOptions()
	opts.Headless = *headless
	opts.Timeout = time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second

	b, err := browser.New(opts)
	if err != nil {
		logger.Error("failed to start browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	logger.Info("fetching charts listing")
	html, err := b.ChartsHTML()
	if err != nil {
		logger.Error("failed to fetch charts", "error", err)
		os.Exit(1)
	}

	entries, err := parseEntries(html, *skipBad, logger)
	if err != nil {
		logger.Error("failed to parse charts", "error", err)
		os.Exit(1)
	}
	logger.Info("parsed charts listing", "rows", len(entries))

	writer, err := storage.NewWriter(path, models.ChartColumns)
	if err != nil {
		logger.Error("failed to open output", "path", path, "error", err)
		os.Exit(1)
	}
	defer writer.Close()

	for _, e := range entries {
		if err := writer.Write(e.Values()); err != nil {
			logger.Error("failed to write row", "app_id", e.AppID, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("wrote charts export", "path", path, "rows", len(entries))

	if *useDB {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.UpsertChartEntries(ctx, entries); err != nil {
			logger.Error("failed to upsert chart entries", "error", err)
			os.Exit(1)
		}
		logger.Info("upserted chart entries", "rows", len(entries))
	}
}

// parseEntries either stops at the first malformed row (default) or
// skips malformed rows and keeps the rest.
func parseEntries(html string, skipBad bool, logger *slog.Logger) ([]models.ChartEntry, error) {
	charts := parser.NewChartsParser()
	if !skipBad {
		return charts.Parse(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var entries []models.ChartEntry
	for entry, err := range charts.Entries(doc) {
		if err != nil {
			if errors.Is(err, parser.ErrShortRow) {
				logger.Warn("skipping malformed chart row", "error", err)
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
