package decompose

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MetresPerMile  = 1609.344
	MetresPerYard  = 0.9144
	YardsPerChain  = 22
	YardsPerMile   = 1760
	ChainsPerMile  = 80
	MetresPerChain = MetresPerYard * YardsPerChain
)

const (
	LengthUnknown     = "Unknown"
	LengthUnavailable = "Unavailable"
	LengthFormerly    = "Formerly"
)

var (
	unknownLength = regexp.MustCompile(`(?i)^unknown`)
	rangeLength   = regexp.MustCompile(`^c?≈?(\d+)m\s*(\d+(?:\.\d+)?)y(?:ds?)?\s*(?:-|–|to)\s*c?≈?(\d+)m\s*(\d+(?:\.\d+)?)y(?:ds?)?`)
	milesLength   = regexp.MustCompile(`^((?i:formerly)\s+)?c?≈?(\d+)m\s*(\d+(?:\.\d+)?)\s*(yds?|y|ch)\b`)
	kmLength      = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s?km\b`)
	yardsLength   = regexp.MustCompile(`^c?≈?(\d+(?:\.\d+)?)\s?(yds?|y)\b`)
)

func roundMetres(m float64) float64 {
	return math.Round(m*1e4) / 1e4
}

func milesYards(miles, yards string) float64 {
	mi, _ := strconv.ParseFloat(miles, 64)
	yd, _ := strconv.ParseFloat(yards, 64)
	return mi*MetresPerMile + yd*MetresPerYard
}

func formatMetres(m float64) string {
	return strconv.FormatFloat(math.Round(m*100)/100, 'f', -1, 64)
}

// converts a tunnel/viaduct length to metres.
//
//	""                  -> (NaN, "Unavailable")
//	"unknown"           -> (NaN, "Unknown")
//	"1m 182y"           -> (1775.7648, "")
//	"formerly 0m236y"   -> (215.7984, "Formerly")
//	"0m 110yd [approx]" -> (100.584, "approx")
//	"2.41km (1m 875yd)" -> (2410, "1m 875yd")
//	"0m 50yd-0m 60yd"   -> (50.292, "45.72-54.86 metres")
//
// text in none of these forms gives NaN with the text as the note.
func Length(x string) (float64, string) {
	x = strings.TrimSpace(x)
	if x == "" {
		return math.NaN(), LengthUnavailable
	}
	if unknownLength.MatchString(x) {
		return math.NaN(), LengthUnknown
	}

	metres, note, ok := parseLength(x)
	if !ok && strings.ContainsFunc(x, isVulgarFraction) {
		metres, note, ok = parseLength(DecodeFractions(x))
	}
	if !ok {
		return math.NaN(), x
	}
	return metres, note
}

func isVulgarFraction(r rune) bool {
	_, ok := VulgarFraction(r)
	return ok
}

func parseLength(x string) (float64, string, bool) {
	if groups := rangeLength.FindStringSubmatch(x); groups != nil {
		a := milesYards(groups[1], groups[2])
		b := milesYards(groups[3], groups[4])
		note := fmt.Sprintf("%s-%s metres", formatMetres(a), formatMetres(b))
		return roundMetres((a + b) / 2), note, true
	}

	if groups := milesLength.FindStringSubmatch(x); groups != nil {
		yards := groups[3]
		if groups[4] == "ch" {
			ch, _ := strconv.ParseFloat(yards, 64)
			yards = strconv.FormatFloat(ch*YardsPerChain, 'f', -1, 64)
		}
		metres := roundMetres(milesYards(groups[2], yards))

		rest := strings.TrimSpace(x[len(groups[0]):])
		if _, inner, ok := trailingGroup("x " + rest); ok && rest != "" {
			return metres, cleanNote(inner), true
		}
		if groups[1] != "" {
			return metres, LengthFormerly, true
		}
		return metres, "", true
	}

	if groups := kmLength.FindStringSubmatch(x); groups != nil {
		km, _ := strconv.ParseFloat(groups[1], 64)
		note := ""
		rest := strings.TrimSpace(x[len(groups[0]):])
		if _, inner, ok := trailingGroup("x " + rest); ok {
			note = cleanNote(inner)
		}
		return roundMetres(km * 1000), note, true
	}

	if groups := yardsLength.FindStringSubmatch(x); groups != nil {
		yd, _ := strconv.ParseFloat(groups[1], 64)
		_, note := NoteInBrackets("x " + strings.TrimSpace(x[len(groups[0]):]))
		return roundMetres(yd * MetresPerYard), note, true
	}

	return 0, "", false
}
