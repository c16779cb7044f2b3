package parser

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// RatingParser reads the aggregate review rating from the
// schema.org-annotated rating link.
type RatingParser struct{}

func NewRatingParser() *RatingParser {
	return &RatingParser{}
}

func (p *RatingParser) Keys() []string {
	return []string{"rating_percent", "reviews_count"}
}

func (p *RatingParser) Parse(doc *goquery.Document) Partial {
	data := Partial{
		"rating_percent": nil,
		"reviews_count":  nil,
	}

	block := doc.Find(`a[itemprop="aggregateRating"]`).First()
	if block.Length() == 0 {
		return data
	}

	if content, ok := block.Find(`meta[itemprop="ratingValue"]`).Attr("content"); ok {
		if v, err := strconv.ParseFloat(content, 64); err == nil {
			data["rating_percent"] = v
		}
	}
	if content, ok := block.Find(`meta[itemprop="reviewCount"]`).Attr("content"); ok {
		if v, err := strconv.ParseInt(content, 10, 64); err == nil {
			data["reviews_count"] = v
		}
	}

	return data
}
