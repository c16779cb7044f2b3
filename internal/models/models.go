package models

import "strconv"

// ChartEntry is one row of the SteamDB charts table. All counters are
// kept as raw cell text; nothing downstream needs them as numbers.
type ChartEntry struct {
	AppID          string `json:"app_id"`
	Rank           string `json:"rank"`
	Name           string `json:"name"`
	CurrentPlayers string `json:"current_players"`
	Peak24h        string `json:"24h_peak"`
	PeakAllTime    string `json:"all_time_peak"`
}

// ChartColumns is the charts CSV header, in write order.
var ChartColumns = []string{"app_id", "rank", "name", "current_players", "24h_peak", "all_time_peak"}

func (e ChartEntry) Values() []string {
	return []string{e.AppID, e.Rank, e.Name, e.CurrentPlayers, e.Peak24h, e.PeakAllTime}
}

// PriceEntry holds the two tracked price points for one currency.
type PriceEntry struct {
	CurrentPrice        *string `json:"current_price"`
	LowestRecordedPrice *string `json:"lowest_recorded_price"`
}

// Record is the merged result of all block parsers for one app page.
// Value types by key:
//
//	app_id          nil or int64
//	app_type        nil or string
//	developer       []string
//	publisher       []string
//	supported_systems []string
//	release_date    nil or string
//	rating_percent  nil or float64
//	reviews_count   nil or int64
//	tags            []string
//	categories, hardware_categories, accessibility_categories
//	                []string, key present only when the section had items
//	prices          map[string]PriceEntry, key present only when non-empty
type Record map[string]any

// FlatRow is the fixed-width projection of a Record. Nil means the
// source region or value was absent; an empty string means the region
// was present but empty. CSV output cannot keep that distinction, but
// JSON and Postgres do.
type FlatRow struct {
	AppID                   *int64   `json:"app_id"`
	AppType                 *string  `json:"app_type"`
	Developer               *string  `json:"developer"`
	Publisher               *string  `json:"publisher"`
	SupportedSystems        *string  `json:"supported_systems"`
	ReleaseDate             *string  `json:"release_date"`
	RatingPercent           *float64 `json:"rating_percent"`
	ReviewsCount            *int64   `json:"reviews_count"`
	Tags                    *string  `json:"tags"`
	Categories              *string  `json:"categories"`
	HardwareCategories      *string  `json:"hardware_categories"`
	AccessibilityCategories *string  `json:"accessibility_categories"`
	PriceUSDCurrent         *string  `json:"price_usd_current"`
	PriceUSDLowest          *string  `json:"price_usd_lowest"`
	PriceEURCurrent         *string  `json:"price_eur_current"`
	PriceEURLowest          *string  `json:"price_eur_lowest"`
	PriceCISCurrent         *string  `json:"price_cis_current"`
	PriceCISLowest          *string  `json:"price_cis_lowest"`
}

// FlatColumns is the store-info CSV header, in write order.
var FlatColumns = []string{
	"app_id", "app_type", "developer", "publisher", "supported_systems", "release_date",
	"rating_percent", "reviews_count",
	"tags", "categories", "hardware_categories", "accessibility_categories",
	"price_usd_current", "price_usd_lowest",
	"price_eur_current", "price_eur_lowest",
	"price_cis_current", "price_cis_lowest",
}

// Values renders the row for CSV in FlatColumns order, nil as "".
func (r FlatRow) Values() []string {
	return []string{
		formatInt(r.AppID),
		deref(r.AppType),
		deref(r.Developer),
		deref(r.Publisher),
		deref(r.SupportedSystems),
		deref(r.ReleaseDate),
		formatFloat(r.RatingPercent),
		formatInt(r.ReviewsCount),
		deref(r.Tags),
		deref(r.Categories),
		deref(r.HardwareCategories),
		deref(r.AccessibilityCategories),
		deref(r.PriceUSDCurrent),
		deref(r.PriceUSDLowest),
		deref(r.PriceEURCurrent),
		deref(r.PriceEURLowest),
		deref(r.PriceCISCurrent),
		deref(r.PriceCISLowest),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
