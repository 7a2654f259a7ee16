package decompose

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var coordinateRegex = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)\s*°?\s*([NSEWnsew])?\s*(.*)$`)

// parses a decimal degrees cell. a compass suffix sets the sign, anything
// after the number is returned as the note. blank or "-" cells give NaN.
func Coordinate(x string) (float64, string) {
	x = strings.TrimSpace(x)
	if x == "" || x == "-" || x == "—" {
		return math.NaN(), ""
	}

	groups := coordinateRegex.FindStringSubmatch(x)
	if groups == nil {
		return math.NaN(), x
	}
	value, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return math.NaN(), x
	}
	switch strings.ToUpper(groups[2]) {
	case "S", "W":
		value = -math.Abs(value)
	}

	_, note := NoteInBrackets("x " + groups[3])
	if note == "" {
		note = strings.TrimSpace(groups[3])
	}
	return value, note
}
