package decompose

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

const fractionSlash = "⁄"

// the numeric value of a "VULGAR FRACTION" code point such as '½' or '⅜'.
func VulgarFraction(r rune) (float64, bool) {
	if !strings.HasPrefix(runenames.Name(r), "VULGAR FRACTION") {
		return 0, false
	}
	// compatibility decomposition spells the fraction out: '⅜' -> "3⁄8"
	num, den, found := strings.Cut(norm.NFKD.String(string(r)), fractionSlash)
	if !found {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// rewrites vulgar fractions as decimals, joining them with the whole
// number in front: "109½yd" -> "109.5yd", "¼ mile" -> "0.25 mile".
func DecodeFractions(s string) string {
	var out []rune
	for _, r := range s {
		value, ok := VulgarFraction(r)
		if !ok {
			out = append(out, r)
			continue
		}

		start := len(out)
		for start > 0 && unicode.IsDigit(out[start-1]) {
			start--
		}
		whole := 0.0
		if start < len(out) && (start == 0 || out[start-1] != '.') {
			whole, _ = strconv.ParseFloat(string(out[start:]), 64)
			out = out[:start]
		}
		out = append(out, []rune(strconv.FormatFloat(whole+value, 'f', -1, 64))...)
	}
	return string(out)
}
