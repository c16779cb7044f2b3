package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tagTextRe splits an optional run of decorative glyphs (emoji, stars)
// off the front of a tag label. Group 2 is the label itself.
var tagTextRe = regexp.MustCompile(`^([\W_]+)?\s*(.+)$`)

func stripGlyphPrefix(text string) string {
	m := tagTextRe.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	return strings.TrimSpace(m[2])
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// collapseSpace joins all whitespace runs (including newlines between
// child nodes) into single spaces.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func linkTexts(s *goquery.Selection) []string {
	texts := make([]string, 0)
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		texts = append(texts, trimmedText(a))
	})
	return texts
}
