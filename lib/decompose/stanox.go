package decompose

import (
	"regexp"
	"strings"
)

const PseudoStanox = "Pseudo STANOX"

var (
	bareStanox    = regexp.MustCompile(`^(\d{5})$`)
	pseudoStanox  = regexp.MustCompile(`^(\d{5})\*$`)
	remarkStanox  = regexp.MustCompile(`^(\d{5})(\*?)\s+([^\[(\s].*)$`)
	bracketStanox = regexp.MustCompile(`^([\w *,]*?)\s*[\[('"]+(.*?)[)\]'"]*$`)
	numericStanox = regexp.MustCompile(`^\d{1,5}$`)
)

func joinNotes(notes ...string) string {
	var kept []string
	for _, n := range notes {
		n = strings.TrimSpace(n)
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, "; ")
}

// splits a STANOX cell. a trailing * marks a pseudo STANOX.
//
//	"04309"        -> ("04309", "")
//	"04309*"       -> ("04309", "Pseudo STANOX")
//	"04309 disused" -> ("04309", "disused")
//	"04309* (ex BR)" -> ("04309", "Pseudo STANOX; ex BR")
//	"-"            -> ("", "")
func Stanox(x string) (string, string) {
	x = strings.TrimSpace(x)
	if x == "" || x == "-" {
		return "", ""
	}

	if bareStanox.MatchString(x) {
		return x, ""
	}
	if groups := pseudoStanox.FindStringSubmatch(x); groups != nil {
		return groups[1], PseudoStanox
	}
	if groups := remarkStanox.FindStringSubmatch(x); groups != nil {
		pseudo := ""
		if groups[2] == "*" {
			pseudo = PseudoStanox
		}
		return groups[1], joinNotes(pseudo, groups[3])
	}

	if strings.ContainsAny(x, "[('\"") {
		groups := bracketStanox.FindStringSubmatch(x)
		if groups != nil {
			code := strings.TrimSpace(groups[1])
			pseudo := ""
			if strings.Contains(code, "*") {
				pseudo = PseudoStanox
				code = strings.TrimSpace(strings.ReplaceAll(code, "*", ""))
			}
			note := strings.TrimSpace(groups[2])
			return code, joinNotes(pseudo, note)
		}
	}

	return x, ""
}

// zero-pads a numeric STANOX that lost its leading zeros somewhere along
// the way, "4309" -> "04309".
func FixStanox(x string) string {
	x = strings.TrimSpace(x)
	if !numericStanox.MatchString(x) {
		return x
	}
	return strings.Repeat("0", 5-len(x)) + x
}
