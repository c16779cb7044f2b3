package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// ErrMissingAppID is returned when a row without an app id is offered
// for persistence; app_id is the primary key.
var ErrMissingAppID = errors.New("flat row has no app_id")

// UpsertApp stores one flattened app row, replacing any previous scrape.
func (db *DB) UpsertApp(ctx context.Context, row models.FlatRow) error {
	if row.AppID == nil {
		return ErrMissingAppID
	}

	query := `
		INSERT INTO apps (
			app_id, app_type, developer, publisher, supported_systems, release_date,
			rating_percent, reviews_count,
			tags, categories, hardware_categories, accessibility_categories,
			price_usd_current, price_usd_lowest,
			price_eur_current, price_eur_lowest,
			price_cis_current, price_cis_lowest
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (app_id) DO UPDATE SET
			app_type = EXCLUDED.app_type,
			developer = EXCLUDED.developer,
			publisher = EXCLUDED.publisher,
			supported_systems = EXCLUDED.supported_systems,
			release_date = EXCLUDED.release_date,
			rating_percent = EXCLUDED.rating_percent,
			reviews_count = EXCLUDED.reviews_count,
			tags = EXCLUDED.tags,
			categories = EXCLUDED.categories,
			hardware_categories = EXCLUDED.hardware_categories,
			accessibility_categories = EXCLUDED.accessibility_categories,
			price_usd_current = EXCLUDED.price_usd_current,
			price_usd_lowest = EXCLUDED.price_usd_lowest,
			price_eur_current = EXCLUDED.price_eur_current,
			price_eur_lowest = EXCLUDED.price_eur_lowest,
			price_cis_current = EXCLUDED.price_cis_current,
			price_cis_lowest = EXCLUDED.price_cis_lowest,
			updated_at = CURRENT_TIMESTAMP`

	_, err := db.pool.Exec(ctx, query,
		*row.AppID, row.AppType, row.Developer, row.Publisher, row.SupportedSystems, row.ReleaseDate,
		row.RatingPercent, row.ReviewsCount,
		row.Tags, row.Categories, row.HardwareCategories, row.AccessibilityCategories,
		row.PriceUSDCurrent, row.PriceUSDLowest,
		row.PriceEURCurrent, row.PriceEURLowest,
		row.PriceCISCurrent, row.PriceCISLowest,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert app %d: %w", *row.AppID, err)
	}
	return nil
}

// WriteRow makes *DB usable as a scraper sink.
func (db *DB) WriteRow(ctx context.Context, row models.FlatRow) error {
	return db.UpsertApp(ctx, row)
}

// GetApp returns the stored row for one app, or nil when absent.
func (db *DB) GetApp(ctx context.Context, appID int64) (*models.FlatRow, error) {
	query := `
		SELECT app_id, app_type, developer, publisher, supported_systems, release_date,
			rating_percent, reviews_count,
			tags, categories, hardware_categories, accessibility_categories,
			price_usd_current, price_usd_lowest,
			price_eur_current, price_eur_lowest,
			price_cis_current, price_cis_lowest
		FROM apps
		WHERE app_id = $1`

	row := models.FlatRow{}
	err := db.pool.QueryRow(ctx, query, appID).Scan(
		&row.AppID, &row.AppType, &row.Developer, &row.Publisher, &row.SupportedSystems, &row.ReleaseDate,
		&row.RatingPercent, &row.ReviewsCount,
		&row.Tags, &row.Categories, &row.HardwareCategories, &row.AccessibilityCategories,
		&row.PriceUSDCurrent, &row.PriceUSDLowest,
		&row.PriceEURCurrent, &row.PriceEURLowest,
		&row.PriceCISCurrent, &row.PriceCISLowest,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app %d: %w", appID, err)
	}
	return &row, nil
}

// UpsertChartEntries stores a charts snapshot in one batch. Rows whose
// app id attribute did not parse are skipped; the charts CSV keeps the
// raw value for those.
func (db *DB) UpsertChartEntries(ctx context.Context, entries []models.ChartEntry) error {
	query := `
		INSERT INTO app_charts (app_id, rank, name, current_players, peak_24h, peak_all_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (app_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			name = EXCLUDED.name,
			current_players = EXCLUDED.current_players,
			peak_24h = EXCLUDED.peak_24h,
			peak_all_time = EXCLUDED.peak_all_time,
			updated_at = CURRENT_TIMESTAMP`

	batch := &pgx.Batch{}
	for _, e := range entries {
		appID, err := strconv.ParseInt(e.AppID, 10, 64)
		if err != nil {
			continue
		}
		batch.Queue(query, appID, e.Rank, e.Name, e.CurrentPlayers, e.Peak24h, e.PeakAllTime)
	}
	if batch.Len() == 0 {
		return nil
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert chart entry: %w", err)
		}
	}
	return nil
}
