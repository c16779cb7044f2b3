package parser

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// ErrShortRow reports a charts row with fewer cells than the column
// layout requires. It usually means SteamDB changed the table layout,
// so it is surfaced instead of being skipped silently.
var ErrShortRow = errors.New("charts row has too few cells")

// chartCellCount is the number of cells needed to address every
// counter column (rank, logo, name, current, 24h peak, all-time peak).
const chartCellCount = 6

// ChartsParser reads the ranked player-count table from the charts page.
type ChartsParser struct{}

func NewChartsParser() *ChartsParser {
	return &ChartsParser{}
}

// Entries yields chart rows in document order. A malformed row yields a
// zero entry with an ErrShortRow-wrapped error; the caller decides
// whether to skip it or stop. The sequence is restartable.
func (p *ChartsParser) Entries(doc *goquery.Document) iter.Seq2[models.ChartEntry, error] {
	return func(yield func(models.ChartEntry, error) bool) {
		rows := doc.Find("table.table-products tbody tr")
		for i := range rows.Length() {
			row := rows.Eq(i)
			cells := row.Find("td")
			if cells.Length() < chartCellCount {
				err := fmt.Errorf("row %d: %w (%d of %d)", i, ErrShortRow, cells.Length(), chartCellCount)
				if !yield(models.ChartEntry{}, err) {
					return
				}
				continue
			}

			appID, _ := row.Attr("data-appid")
			entry := models.ChartEntry{
				AppID:          appID,
				Rank:           trimmedText(cells.Eq(0)),
				Name:           trimmedText(cells.Eq(2)),
				CurrentPlayers: trimmedText(cells.Eq(3)),
				Peak24h:        trimmedText(cells.Eq(4)),
				PeakAllTime:    trimmedText(cells.Eq(5)),
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Parse extracts all chart rows from raw HTML, stopping at the first
// malformed row. Rows parsed before the defect are returned with it.
func (p *ChartsParser) Parse(html string) ([]models.ChartEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var entries []models.ChartEntry
	for entry, err := range p.Entries(doc) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
