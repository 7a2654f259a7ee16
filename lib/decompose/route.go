package decompose

import (
	"regexp"
	"strings"
)

const suburbanRoute = "Watford - Euston suburban route"

var quotedRouteNote = regexp.MustCompile(`^(.+?) \['\(?(.*)$`)

// splits a line name's route column into the route and its note. the
// branches follow the irregularities of the line names page and are
// tried in order.
func Route(x string) (string, string) {
	x = strings.TrimSpace(x)
	if x == "" {
		return "", ""
	}

	// always its own route, whatever follows it
	if strings.Contains(x, suburbanRoute) {
		return suburbanRoute, x
	}

	if route, rest, found := strings.Cut(x, ", including "); found {
		return strings.TrimSpace(route), "including " + strings.TrimSpace(rest)
	}

	if groups := quotedRouteNote.FindStringSubmatch(x); groups != nil {
		return groups[1], strings.TrimRight(groups[2], ")']")
	}

	if strings.HasSuffix(x, ")") {
		// "A - B - (C)" names a sub-route, it is not a note
		if strings.Contains(x, " - (") {
			return x, ""
		}
		if route, inner, ok := trailingGroup(x); ok {
			return route, inner
		}
	}

	return x, ""
}
