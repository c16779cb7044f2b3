// Command scraper walks app detail pages and exports one flattened row
// per app. Three modes share the binary:
//
//	run     scrape the app ids from -input directly (default)
//	enqueue push the app ids from -input onto the Redis backlog
//	worker  consume the Redis backlog until interrupted
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steamdbtools/steamdb-scraper/internal/browser"
	"github.com/steamdbtools/steamdb-scraper/internal/config"
	"github.com/steamdbtools/steamdb-scraper/internal/database"
	"github.com/steamdbtools/steamdb-scraper/internal/logging"
	"github.com/steamdbtools/steamdb-scraper/internal/models"
	"github.com/steamdbtools/steamdb-scraper/internal/parser"
	"github.com/steamdbtools/steamdb-scraper/internal/queue"
	"github.com/steamdbtools/steamdb-scraper/internal/ratelimit"
	"github.com/steamdbtools/steamdb-scraper/internal/scraper"
	"github.com/steamdbtools/steamdb-scraper/internal/storage"
)

func main() {
	var (
		mode      = flag.String("mode", "run", "run, enqueue or worker")
		input     = flag.String("input", "", "charts CSV to read app ids from (default from OUTPUT_CHARTS)")
		output    = flag.String("output", "", "store info CSV path (default from OUTPUT_STORE_INFO)")
		startFrom = flag.Int64("start-from", 0, "resume the batch at this app id")
		headless  = flag.Bool("headless", true, "run the browser headless")
		useDB     = flag.Bool("db", false, "also upsert rows into Postgres")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format).With("component", "scraper-cli")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputPath := cfg.Output.ChartsPath
	if *input != "" {
		inputPath = *input
	}

	var exitErr error
	switch *mode {
	case "run":
		exitErr = runBatch(ctx, cfg, logger, inputPath, *output, *startFrom, *headless, *useDB)
	case "enqueue":
		exitErr = enqueueBatch(ctx, cfg, logger, inputPath, *startFrom)
	case "worker":
		exitErr = runWorker(ctx, cfg, logger, *output, *headless, *useDB)
	default:
		logger.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}

	if exitErr != nil && !errors.Is(exitErr, context.Canceled) {
		logger.Error("run failed", "mode", *mode, "error", exitErr)
		os.Exit(1)
	}
	logger.Info("done", "mode", *mode)
}

func runBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, input, output string, startFrom int64, headless, useDB bool) error {
	appIDs, err := storage.LoadAppIDs(input, startFrom)
	if err != nil {
		return err
	}
	logger.Info("loaded batch", "input", input, "apps", len(appIDs))

	svc, cleanup, err := buildService(ctx, cfg, logger, output, headless, useDB)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.Run(ctx, appIDs)
}

func enqueueBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string, startFrom int64) error {
	appIDs, err := storage.LoadAppIDs(input, startFrom)
	if err != nil {
		return err
	}

	q := newRedisQueue(cfg)
	defer q.Close()

	for _, appID := range appIDs {
		if err := q.Push(ctx, queue.NewTask(appID)); err != nil {
			return err
		}
	}

	size, err := q.Size(ctx)
	if err != nil {
		return err
	}
	logger.Info("enqueued batch", "pushed", len(appIDs), "backlog", size)
	return nil
}

func runWorker(ctx context.Context, cfg *config.Config, logger *slog.Logger, output string, headless, useDB bool) error {
	svc, cleanup, err := buildService(ctx, cfg, logger, output, headless, useDB)
	if err != nil {
		return err
	}
	defer cleanup()

	q := newRedisQueue(cfg)
	defer q.Close()

	logger.Info("worker started", "queue", cfg.Redis.QueueKey)
	for {
		task, err := q.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
				return nil
			}
			return err
		}
		if err := svc.Run(ctx, []int64{task.AppID}); err != nil {
			return err
		}
	}
}

// buildService wires browser, parser, limiter and sinks into a batch
// service. The returned cleanup closes everything in reverse order.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger, output string, headless, useDB bool) (*scraper.Service, func(), error) {
	outputPath := cfg.Output.StoreInfoPath
	if output != "" {
		outputPath = output
	}

	opts := browser.DefaultOptions()
	opts.Headless = headless
	opts.Timeout = time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second

	b, err := browser.New(opts)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { b.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	pages, err := parser.NewPageParser(pageBlocks(cfg)...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	writer, err := storage.NewWriter(outputPath, models.FlatColumns)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, func() { writer.Close() })

	sinks := []scraper.RowSink{scraper.NewCSVSink(writer)}

	if useDB {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		sinks = append(sinks, db)
	}

	limiter := ratelimit.New(
		time.Duration(cfg.Scraper.DelayMinSeconds)*time.Second,
		time.Duration(cfg.Scraper.DelayMaxSeconds)*time.Second,
		cfg.Scraper.BlockSize,
		time.Duration(cfg.Scraper.BlockPauseMinutes)*time.Minute,
	)

	return scraper.New(b, pages, limiter, sinks...), cleanup, nil
}

// pageBlocks returns the default block set, with the price currency
// allow-list overridden from config when one is set.
func pageBlocks(cfg *config.Config) []parser.BlockParser {
	if len(cfg.Scraper.Currencies) == 0 {
		return parser.DefaultBlocks()
	}
	return []parser.BlockParser{
		parser.NewStoreInfoParser(),
		parser.NewRatingParser(),
		parser.NewTagsParser(),
		parser.NewCategoriesParser("Categories", "categories"),
		parser.NewCategoriesParser("Hardware", "hardware_categories"),
		parser.NewCategoriesParser("Accessibility", "accessibility_categories"),
		parser.NewPricesParser(cfg.Scraper.Currencies...),
	}
}

func newRedisQueue(cfg *config.Config) *queue.RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return queue.NewRedisQueue(client, cfg.Redis.QueueKey)
}
