package parser

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// releaseDateRe matches SteamDB's full release timestamp, e.g.
// "3 July 2015 – 17:00:00 UTC". Rows without the time part stay nil.
var releaseDateRe = regexp.MustCompile(`\d{1,2} \w+ \d{4} – \d{2}:\d{2}:\d{2} UTC`)

// StoreInfoParser reads the primary app info table: App ID, type,
// developer/publisher, supported systems and release date.
type StoreInfoParser struct{}

func NewStoreInfoParser() *StoreInfoParser {
	return &StoreInfoParser{}
}

func (p *StoreInfoParser) Keys() []string {
	return []string{"app_id", "app_type", "developer", "publisher", "supported_systems", "release_date"}
}

func (p *StoreInfoParser) Parse(doc *goquery.Document) Partial {
	data := Partial{
		"app_id":            nil,
		"app_type":          nil,
		"developer":         []string{},
		"publisher":         []string{},
		"supported_systems": []string{},
		"release_date":      nil,
	}

	table := doc.Find("div.span8 table").First()
	if table.Length() == 0 {
		return data
	}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}

		label := trimmedText(cells.Eq(0))
		value := cells.Eq(1)

		switch label {
		case "App ID":
			// Malformed id stays nil.
			if id, err := strconv.ParseInt(trimmedText(value), 10, 64); err == nil {
				data["app_id"] = id
			}
		case "App Type":
			data["app_type"] = trimmedText(value)
		case "Developer":
			data["developer"] = linkTexts(value)
		case "Publisher":
			data["publisher"] = linkTexts(value)
		case "Supported Systems":
			systems := []string{}
			if value.Find(".octicon-windows").Length() > 0 {
				systems = append(systems, "Windows")
			}
			if value.Find(".octicon-linux").Length() > 0 {
				systems = append(systems, "Linux")
			}
			if value.Find(".octicon-apple").Length() > 0 {
				systems = append(systems, "macOS")
			}
			data["supported_systems"] = systems
		case "Release Date":
			if m := releaseDateRe.FindString(collapseSpace(value.Text())); m != "" {
				data["release_date"] = m
			}
		}
		// Unknown labels are ignored so layout additions don't break us.
	})

	return data
}
