package decompose

import (
	"regexp"
	"strings"
)

var ownerSeparators = regexp.MustCompile(`\s+/\s+|\r\n|\r|\n`)
var fromQualifier = regexp.MustCompile(`\s*\[(from [^\]]+)\][.,;]*`)

// "Network Rail✖London Underground" -> "Network Rail and London Underground"
func joinEntities(x string) string {
	if !strings.Contains(x, Cross) {
		return x
	}
	parts := strings.Split(x, Cross)
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " and ")
}

// "Southern [from 2015]." -> "Southern from 2015"
func dropDatePunctuation(x string) string {
	if !strings.Contains(x, "[from ") {
		return x
	}
	return strings.TrimSpace(fromQualifier.ReplaceAllString(x, " $1"))
}

// splits a station owner or operator cell into the current value and the
// former ones. several former values are joined with " / ".
//
//	"Network Rail / British Rail" -> ("Network Rail", "British Rail")
//	"Northern\r\nArriva Trains Northern\r\nFirst North Western" -> ("Northern", "Arriva Trains Northern / First North Western")
func OwnerOperator(x string) (string, string) {
	x = strings.TrimSpace(x)
	if x == "" {
		return "", ""
	}

	segments := ownerSeparators.Split(x, -1)
	for i, s := range segments {
		segments[i] = dropDatePunctuation(joinEntities(strings.TrimSpace(s)))
	}

	current := segments[0]
	if len(segments) == 1 {
		return current, ""
	}
	return current, strings.Join(segments[1:], " / ")
}
