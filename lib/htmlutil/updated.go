package htmlutil

import (
	"regexp"
	"strings"
	"time"

	"railcodes/lib/timezone"

	"github.com/PuerkitoBio/goquery"
)

var lastUpdatedRegex = regexp.MustCompile(`(?i)last\s+updated:?\s*(\d{1,2})\s*(?:st|nd|rd|th)?\s+([A-Za-z]+)\s+(\d{4})`)

// parses the "Last updated: 18 June 2020" stamp the source site puts at the
// bottom of each page. returns the zero time when there is none.
func LastUpdatedDate(doc *goquery.Document) time.Time {
	return ParseLastUpdated(doc.Text())
}

func ParseLastUpdated(text string) time.Time {
	groups := lastUpdatedRegex.FindStringSubmatch(text)
	if len(groups) < 4 {
		return time.Time{}
	}
	normalized := strings.Join([]string{groups[1], groups[2], groups[3]}, " ")
	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		date, err := time.ParseInLocation(layout, normalized, timezone.Location)
		if err == nil {
			return date
		}
	}
	return time.Time{}
}
