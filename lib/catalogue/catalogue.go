// Package catalogue maps the headings listed on an index page of the source
// site to the pages they link to.
package catalogue

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

var ErrNotFound = errors.New("not in catalogue")

// a requested letter, page number or heading is not on the index page.
type LookupError struct {
	Key string
	// the closest heading there is, if any
	Suggestion string
}

func (e *LookupError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("%q is %s", e.Key, ErrNotFound.Error())
	}
	return fmt.Sprintf("%q is %s, did you mean %q?", e.Key, ErrNotFound.Error(), e.Suggestion)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

type Entry struct {
	Heading string `json:"heading"`
	URL     string `json:"url"`
}

// the headings of one index page in the order the page lists them.
type Catalogue struct {
	Source  string  `json:"source"`
	Entries []Entry `json:"entries"`
}

func (c Catalogue) Keys() []string {
	keys := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		keys[i] = e.Heading
	}
	return keys
}

func (c Catalogue) Map() map[string]string {
	out := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		out[e.Heading] = e.URL
	}
	return out
}

func (c Catalogue) Len() int {
	return len(c.Entries)
}

func (c Catalogue) lookupError(key string) *LookupError {
	var best string
	var bestSimilarity float64
	for _, e := range c.Entries {
		similarity := matchr.JaroWinkler(strings.ToLower(key), strings.ToLower(e.Heading), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = e.Heading
		}
	}
	// anything less alike than this is noise
	if bestSimilarity < 0.7 {
		best = ""
	}
	return &LookupError{Key: key, Suggestion: best}
}

// the url listed under `heading` exactly as rendered.
func (c Catalogue) URL(heading string) (string, error) {
	heading = strings.TrimSpace(heading)
	for _, e := range c.Entries {
		if e.Heading == heading {
			return e.URL, nil
		}
	}
	return "", c.lookupError(heading)
}

// the first heading containing `page` as a whole number: 4 -> "Page 4 (others)".
func PageHeading(c Catalogue, page int) (string, error) {
	pattern := regexp.MustCompile(`(^|\D)` + strconv.Itoa(page) + `(\D|$)`)
	for _, e := range c.Entries {
		if pattern.MatchString(e.Heading) {
			return e.Heading, nil
		}
	}
	return "", c.lookupError(fmt.Sprintf("Page %d", page))
}

// the url of the page for an initial letter, case is ignored.
func LetterURL(c Catalogue, letter string) (string, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return "", &LookupError{Key: letter}
	}
	for _, e := range c.Entries {
		if strings.ToUpper(e.Heading) == letter {
			return e.URL, nil
		}
	}
	return "", &LookupError{Key: letter}
}

// the letter headings of `c` in page order, "A" through "Z" on a complete
// index.
func Letters(c Catalogue) []string {
	var letters []string
	for _, e := range c.Entries {
		h := strings.ToUpper(e.Heading)
		if len(h) == 1 && h[0] >= 'A' && h[0] <= 'Z' {
			letters = append(letters, h)
		}
	}
	return letters
}

var pageNumberRegex = regexp.MustCompile(`(?i)page\s+(\d+)`)

// the page numbers of `c` in page order: "Page 4 (others)" -> "4".
func Pages(c Catalogue) []string {
	var pages []string
	seen := map[string]struct{}{}
	for _, e := range c.Entries {
		groups := pageNumberRegex.FindStringSubmatch(e.Heading)
		if groups == nil {
			continue
		}
		if _, ok := seen[groups[1]]; ok {
			continue
		}
		seen[groups[1]] = struct{}{}
		pages = append(pages, groups[1])
	}
	return pages
}

// the url of the page numbered `page`, "4" or "Page 4" alike.
func PageURL(c Catalogue, page string) (string, error) {
	if groups := pageNumberRegex.FindStringSubmatch(page); groups != nil {
		page = groups[1]
	}
	n, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil {
		return "", &LookupError{Key: page}
	}
	heading, err := PageHeading(c, n)
	if err != nil {
		return "", err
	}
	return c.URL(heading)
}
