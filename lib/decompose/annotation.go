// Package decompose splits single cells of the source site's tables into a
// primary value and the annotation that came with it. Every function here
// is total: input it does not recognise is passed through as the primary
// value with an empty note.
package decompose

import (
	"strings"
)

// the glyph the source site uses to join a value with a struck-out or
// secondary one.
const Cross = "✖"

func closing(open rune) rune {
	if open == '(' {
		return ')'
	}
	return ']'
}

// finds the bracket group that ends `s` and returns the text before it and
// the text inside it. ok is false when `s` does not end in a balanced
// group or the group is all there is.
func trailingGroup(s string) (base, inner string, ok bool) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return s, "", false
	}
	last := runes[len(runes)-1]
	if last != ')' && last != ']' {
		return s, "", false
	}

	depth := 0
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ')', ']':
			depth++
		case '(', '[':
			depth--
			if depth == 0 {
				if closing(runes[i]) != last {
					return s, "", false
				}
				base = strings.TrimSpace(string(runes[:i]))
				inner = string(runes[i+1 : len(runes)-1])
				if base == "" {
					return s, "", false
				}
				return base, inner, true
			}
		}
	}
	return s, "", false
}

// tidies up the inside of a bracket group: surrounding quotes and a
// redundant inner pair of brackets are dropped.
func cleanNote(note string) string {
	note = strings.TrimSpace(note)
	for {
		trimmed := strings.Trim(note, `"'`)
		if len(trimmed) >= 2 {
			first, last := trimmed[0], trimmed[len(trimmed)-1]
			if (first == '(' && last == ')') || (first == '[' && last == ']') {
				trimmed = trimmed[1 : len(trimmed)-1]
			}
		}
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == note {
			return note
		}
		note = trimmed
	}
}

func splitCross(s string) (string, string, bool) {
	before, after, found := strings.Cut(s, Cross)
	if !found {
		return s, "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

// splits a trailing bracketed annotation off a value. "Foo [bar]" gives
// ("Foo", "bar").
func NoteInBrackets(s string) (string, string) {
	base, inner, ok := trailingGroup(s)
	if !ok {
		return strings.TrimSpace(s), ""
	}
	return base, cleanNote(inner)
}
