package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CategoriesParser collects one titled category section ("Categories",
// "Hardware", "Accessibility"). Unlike tags, the result key is omitted
// entirely when the section is absent or empty: a missing section means
// "not applicable", not "none".
type CategoriesParser struct {
	title string
	key   string
}

func NewCategoriesParser(title, key string) *CategoriesParser {
	return &CategoriesParser{title: title, key: key}
}

func (p *CategoriesParser) Keys() []string {
	return []string{p.key}
}

func (p *CategoriesParser) Parse(doc *goquery.Document) Partial {
	var items []string

	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(heading.Text(), p.title) {
			return true
		}
		block := heading.NextAllFiltered("div.store-categories").First()
		block.Find("a.btn span").Each(func(_ int, span *goquery.Selection) {
			items = append(items, trimmedText(span))
		})
		return false
	})

	if len(items) == 0 {
		return Partial{}
	}
	return Partial{p.key: items}
}
