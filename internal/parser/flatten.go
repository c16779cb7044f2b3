package parser

import (
	"strings"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// listSeparator joins multi-valued fields into one CSV-safe column.
const listSeparator = " | "

// Currency display names backing the fixed price columns.
const (
	currencyUSD = "U.S. Dollar"
	currencyEUR = "Euro"
	currencyCIS = "CIS - U.S. Dollar"
)

// Flatten projects a merged record onto the fixed flat schema. The
// distinction between "section present but empty" (empty string) and
// "section absent" (nil) is kept: the categories and prices parsers omit
// their keys when the section is missing, and downstream consumers rely
// on seeing null there rather than an empty value.
func Flatten(rec models.Record) models.FlatRow {
	row := models.FlatRow{
		AppID:                   intField(rec, "app_id"),
		AppType:                 stringField(rec, "app_type"),
		Developer:               listField(rec, "developer"),
		Publisher:               listField(rec, "publisher"),
		SupportedSystems:        listField(rec, "supported_systems"),
		ReleaseDate:             stringField(rec, "release_date"),
		RatingPercent:           floatField(rec, "rating_percent"),
		ReviewsCount:            intField(rec, "reviews_count"),
		Tags:                    listField(rec, "tags"),
		Categories:              listField(rec, "categories"),
		HardwareCategories:      listField(rec, "hardware_categories"),
		AccessibilityCategories: listField(rec, "accessibility_categories"),
	}

	prices, _ := rec["prices"].(map[string]models.PriceEntry)
	if entry, ok := prices[currencyUSD]; ok {
		row.PriceUSDCurrent = entry.CurrentPrice
		row.PriceUSDLowest = entry.LowestRecordedPrice
	}
	if entry, ok := prices[currencyEUR]; ok {
		row.PriceEURCurrent = entry.CurrentPrice
		row.PriceEURLowest = entry.LowestRecordedPrice
	}
	if entry, ok := prices[currencyCIS]; ok {
		row.PriceCISCurrent = entry.CurrentPrice
		row.PriceCISLowest = entry.LowestRecordedPrice
	}

	return row
}

func listField(rec models.Record, key string) *string {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	items, _ := v.([]string)
	joined := strings.Join(items, listSeparator)
	return &joined
}

func stringField(rec models.Record, key string) *string {
	s, ok := rec[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func intField(rec models.Record, key string) *int64 {
	v, ok := rec[key].(int64)
	if !ok {
		return nil
	}
	return &v
}

func floatField(rec models.Record, key string) *float64 {
	v, ok := rec[key].(float64)
	if !ok {
		return nil
	}
	return &v
}
