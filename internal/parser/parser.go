// Package parser extracts structured app data from SteamDB HTML. Each
// block parser recognizes one region of the app detail page and returns
// a partial result; PageParser merges them into a single record.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// Partial is the output of a single block parser. A missing region is
// normal and yields defaults (or an empty Partial), never an error.
type Partial map[string]any

type BlockParser interface {
	Parse(doc *goquery.Document) Partial
	// Keys lists every key the parser can emit. PageParser requires the
	// key sets of its parsers to be pairwise disjoint.
	Keys() []string
}

// PageParser runs the block parsers in a fixed order and unions their
// partials. Because key sets are disjoint, merge order never matters
// for the result, only for reading the code.
type PageParser struct {
	blocks []BlockParser
}

// DefaultBlocks returns the standard parser set for an app detail page.
func DefaultBlocks() []BlockParser {
	return []BlockParser{
		NewStoreInfoParser(),
		NewRatingParser(),
		NewTagsParser(),
		NewCategoriesParser("Categories", "categories"),
		NewCategoriesParser("Hardware", "hardware_categories"),
		NewCategoriesParser("Accessibility", "accessibility_categories"),
		NewPricesParser(),
	}
}

// NewPageParser builds a page parser from the given blocks (DefaultBlocks
// when none are given) and rejects overlapping key sets.
func NewPageParser(blocks ...BlockParser) (*PageParser, error) {
	if len(blocks) == 0 {
		blocks = DefaultBlocks()
	}
	if err := checkDisjointKeys(blocks); err != nil {
		return nil, err
	}
	return &PageParser{blocks: blocks}, nil
}

func checkDisjointKeys(blocks []BlockParser) error {
	owner := make(map[string]int)
	for i, b := range blocks {
		for _, key := range b.Keys() {
			if j, taken := owner[key]; taken {
				return fmt.Errorf("block parsers %d and %d both emit key %q", j, i, key)
			}
			owner[key] = i
		}
	}
	return nil
}

// Parse merges the partials of all block parsers for one document.
// Parsers are independent: one returning nothing never blocks the rest.
func (p *PageParser) Parse(doc *goquery.Document) models.Record {
	record := make(models.Record)
	for _, block := range p.blocks {
		for key, value := range block.Parse(doc) {
			record[key] = value
		}
	}
	return record
}

// ParsePage parses raw HTML and merges all block results.
func (p *PageParser) ParsePage(html string) (models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.Parse(doc), nil
}
