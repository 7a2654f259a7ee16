package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var nonNameRegex = regexp.MustCompile(`[^a-z0-9\-]+`)
var hyphenRuns = regexp.MustCompile(`-{2,}`)

// lower-cases and removes all whitespace, used for loose heading matches.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// whether any of `matchers` appears in `name`, ignoring case and spacing.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}

// the file-safe form of a cluster name: "CRS, NLC, TIPLOC and STANOX" ->
// "crs-nlc-tiploc-and-stanox".
func CacheName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = whitespaceRegex.ReplaceAllString(name, "-")
	name = nonNameRegex.ReplaceAllString(name, "")
	name = hyphenRuns.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}
