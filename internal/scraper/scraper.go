// Package scraper orchestrates batch extraction: fetch each app page,
// parse it, flatten the record and hand the row to the configured sinks.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
	"github.com/steamdbtools/steamdb-scraper/internal/parser"
	"github.com/steamdbtools/steamdb-scraper/internal/ratelimit"
	"github.com/steamdbtools/steamdb-scraper/internal/storage"
)

// Fetcher returns the rendered markup of one app detail page.
type Fetcher interface {
	AppPageHTML(appID int64) (string, error)
}

// RowSink receives every successfully flattened row.
type RowSink interface {
	WriteRow(ctx context.Context, row models.FlatRow) error
}

// SinkFunc adapts a function to RowSink.
type SinkFunc func(ctx context.Context, row models.FlatRow) error

func (f SinkFunc) WriteRow(ctx context.Context, row models.FlatRow) error {
	return f(ctx, row)
}

// CSVSink writes rows to a CSV export.
type CSVSink struct {
	w *storage.Writer
}

func NewCSVSink(w *storage.Writer) *CSVSink {
	return &CSVSink{w: w}
}

func (s *CSVSink) WriteRow(_ context.Context, row models.FlatRow) error {
	return s.w.Write(row.Values())
}

type Service struct {
	fetcher Fetcher
	pages   *parser.PageParser
	limiter ratelimit.RateLimiter
	sinks   []RowSink
	logger  *slog.Logger
}

func New(fetcher Fetcher, pages *parser.PageParser, limiter ratelimit.RateLimiter, sinks ...RowSink) *Service {
	return &Service{
		fetcher: fetcher,
		pages:   pages,
		limiter: limiter,
		sinks:   sinks,
		logger:  slog.Default().With("component", "scraper"),
	}
}

// ScrapeApp fetches and extracts a single app. Parse-level gaps (missing
// regions, malformed values) never fail the call; only fetch or document
// level problems do.
func (s *Service) ScrapeApp(ctx context.Context, appID int64) (models.FlatRow, error) {
	if err := ctx.Err(); err != nil {
		return models.FlatRow{}, err
	}

	html, err := s.fetcher.AppPageHTML(appID)
	if err != nil {
		return models.FlatRow{}, fmt.Errorf("app %d: %w", appID, err)
	}

	record, err := s.pages.ParsePage(html)
	if err != nil {
		return models.FlatRow{}, fmt.Errorf("app %d: %w", appID, err)
	}

	return parser.Flatten(record), nil
}

// Run processes appIDs in order. A failed app is logged and skipped so
// one bad page never kills a batch; a failing sink is fatal because
// continuing would silently drop rows.
func (s *Service) Run(ctx context.Context, appIDs []int64) error {
	for _, appID := range appIDs {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		row, err := s.ScrapeApp(ctx, appID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("scrape failed", "app_id", appID, "error", err)
			continue
		}

		if err := s.write(ctx, row); err != nil {
			return err
		}
		s.logger.Info("scraped app", "app_id", appID)
	}
	return nil
}

func (s *Service) write(ctx context.Context, row models.FlatRow) error {
	for _, sink := range s.sinks {
		if err := sink.WriteRow(ctx, row); err != nil {
			return fmt.Errorf("sink failed: %w", err)
		}
	}
	return nil
}
