package decompose

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// a railway mileage written as miles.chains, "12.34" is 12 miles 34 chains.
type Mileage struct {
	Miles  int
	Chains int
	// NaN when the text was not a mileage
	Yards float64
	Note  string
}

func (m Mileage) Valid() bool {
	return !math.IsNaN(m.Yards)
}

func (m Mileage) Metres() float64 {
	return roundMetres(m.Yards * MetresPerYard)
}

func (m Mileage) String() string {
	if !m.Valid() {
		return ""
	}
	return strconv.Itoa(m.Miles) + "." + leftPad(strconv.Itoa(m.Chains), 2)
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

var (
	mileChainRegex = regexp.MustCompile(`^(\d+)\.(\d{1,2})\b\s*(.*)$`)
	milesOnlyRegex = regexp.MustCompile(`^(\d+)\b\s*(.*)$`)
	mileageSep     = regexp.MustCompile(`\s*(?:-|–|to)\s*`)
)

func newMileage(miles, chains int, note string) Mileage {
	return Mileage{
		Miles:  miles,
		Chains: chains,
		Yards:  float64(miles*YardsPerMile + chains*YardsPerChain),
		Note:   note,
	}
}

// parses a miles.chains mileage. a single chain digit is tens of chains
// ("12.3" is 12 miles 30 chains) the way the source site abbreviates it.
func ParseMileage(x string) Mileage {
	x = DecodeFractions(strings.TrimSpace(x))
	if groups := mileChainRegex.FindStringSubmatch(x); groups != nil {
		miles, _ := strconv.Atoi(groups[1])
		chainText := groups[2]
		if len(chainText) == 1 {
			chainText += "0"
		}
		chains, _ := strconv.Atoi(chainText)
		_, note := NoteInBrackets("x " + groups[3])
		if note == "" {
			note = strings.TrimSpace(groups[3])
		}
		return newMileage(miles, chains, note)
	}
	if groups := milesOnlyRegex.FindStringSubmatch(x); groups != nil {
		miles, _ := strconv.Atoi(groups[1])
		_, note := NoteInBrackets("x " + groups[2])
		if note == "" {
			note = strings.TrimSpace(groups[2])
		}
		return newMileage(miles, 0, note)
	}
	return Mileage{Yards: math.NaN(), Note: x}
}

// splits "0.00-12.34" into its start and end mileages.
func MileageRange(x string) (string, string) {
	x = strings.TrimSpace(x)
	parts := mileageSep.Split(x, 2)
	if len(parts) < 2 {
		return x, ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
