package parser

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// DefaultCurrencies is the currency allow-list used when none is given.
var DefaultCurrencies = []string{"CIS - U.S. Dollar", "U.S. Dollar", "Euro"}

// PricesParser reads the price table, keeping only allow-listed
// currencies. Rows with other currencies are dropped silently.
type PricesParser struct {
	currencies []string
}

func NewPricesParser(currencies ...string) *PricesParser {
	if len(currencies) == 0 {
		currencies = DefaultCurrencies
	}
	return &PricesParser{currencies: currencies}
}

func (p *PricesParser) Keys() []string {
	return []string{"prices"}
}

func (p *PricesParser) Parse(doc *goquery.Document) Partial {
	table := doc.Find("table.table-prices").First()
	if table.Length() == 0 {
		return Partial{}
	}

	prices := make(map[string]models.PriceEntry)

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		currencyCell := row.Find("td.price-line").First()
		if currencyCell.Length() == 0 {
			return
		}

		name := stripRegionPrefix(trimmedText(currencyCell))
		if !slices.Contains(p.currencies, name) {
			return
		}

		cells := row.Find("td")
		entry := models.PriceEntry{}
		if cells.Length() >= 2 {
			current := trimmedText(cells.Eq(1))
			entry.CurrentPrice = &current
		}
		lowest := trimmedText(cells.Last())
		entry.LowestRecordedPrice = &lowest

		prices[name] = entry
	})

	return Partial{"prices": prices}
}

// stripRegionPrefix drops a leading "REGION- " qualifier when the first
// word ends with a hyphen, so regional rows fold onto the base currency.
func stripRegionPrefix(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 && strings.HasSuffix(fields[0], "-") {
		return strings.Join(fields[1:], " ")
	}
	return name
}
