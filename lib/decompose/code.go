package decompose

import (
	"regexp"
	"strings"
)

var leadingCode = regexp.MustCompile(`^([A-Z0-9]+)\s+(\S.*)$`)

// splits a CRS, NLC, TIPLOC or STANME code from its note. text after the
// cross glyph is always the note.
func Code(x string) (string, string) {
	x = strings.TrimSpace(x)
	if x == "" {
		return "", ""
	}

	if code, note, ok := splitCross(x); ok {
		return code, note
	}

	if code, inner, ok := trailingGroup(x); ok {
		return strings.Trim(code, `"'`), cleanNote(inner)
	}

	return x, ""
}

// like Code but a bare trailing remark after an upper-case code is also
// taken as the note: "ABW see Abbey Wood" -> ("ABW", "see Abbey Wood").
func CodeWithRemark(x string) (string, string) {
	code, note := Code(x)
	if note != "" {
		return code, note
	}
	groups := leadingCode.FindStringSubmatch(code)
	if groups == nil {
		return code, note
	}
	return groups[1], groups[2]
}
