package decompose

import (
	"strings"
)

// splits a location name from its annotation:
//
//	"Abercynon (formerly Abercynon South)" -> ("Abercynon", "formerly Abercynon South")
//	"Birkenhead Hamilton Square [see Hamilton Square]" -> ("Birkenhead Hamilton Square", "see Hamilton Square")
//	"Dunstable Town ✖ Dunstable North" -> ("Dunstable Town", "Dunstable North")
//	"Bristol Parkway STANOX 33087" -> ("Bristol Parkway", "STANOX 33087")
func LocationName(x string) (string, string) {
	x = strings.TrimSpace(x)
	if x == "" {
		return "", ""
	}

	if name, note, ok := splitCross(x); ok && name != "" {
		return name, note
	}

	if name, inner, ok := trailingGroup(x); ok {
		return name, cleanNote(inner)
	}

	if i := strings.Index(x, "STANOX "); i > 0 {
		return strings.TrimSpace(x[:i]), x[i:]
	}

	return x, ""
}
