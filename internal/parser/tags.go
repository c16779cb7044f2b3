package parser

import "github.com/PuerkitoBio/goquery"

// TagsParser collects user tags. The full store tag list is preferred;
// the shorter header summary is the fallback when a page doesn't render
// the store block.
type TagsParser struct{}

func NewTagsParser() *TagsParser {
	return &TagsParser{}
}

func (p *TagsParser) Keys() []string {
	return []string{"tags"}
}

func (p *TagsParser) Parse(doc *goquery.Document) Partial {
	tags := []string{}

	block := doc.Find("div.store-tags").First()
	if block.Length() == 0 {
		block = doc.Find("div.header-app-tags").First()
	}
	if block.Length() == 0 {
		return Partial{"tags": tags}
	}

	block.Find(`a[href^="/tag/"]`).Each(func(_ int, a *goquery.Selection) {
		name := stripGlyphPrefix(trimmedText(a))
		if name != "" {
			tags = append(tags, name)
		}
	})

	return Partial{"tags": tags}
}
