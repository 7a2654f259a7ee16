package htmlutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// the line break string the source site's multi-valued cells are
// rendered with.
const DefaultLineBreak = " / "

var lineBreaks = regexp.MustCompile(`[ \t]*(?:\r\n|\r|\n)[\r\n \t]*`)

// collapses every run of "\r\n", "\r" and "\n" into `lineBreak`.
func NormalizeLineBreaks(s, lineBreak string) string {
	return lineBreaks.ReplaceAllString(s, lineBreak)
}

func writeCellText(node *html.Node, b *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
		return
	case html.ElementNode:
		switch node.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Em:
			b.WriteString("[")
			writeChildren(node, b)
			b.WriteString("]")
			return
		case atom.Q:
			b.WriteString(`"`)
			writeChildren(node, b)
			b.WriteString(`"`)
			return
		}
	}
	writeChildren(node, b)
}

func writeChildren(node *html.Node, b *strings.Builder) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeCellText(child, b)
	}
}

// flattens a table cell into text. <em>x</em> becomes "[x]", <q>x</q>
// becomes "\"x\"", <br> and raw line breaks become `lineBreak`. non-breaking
// spaces are kept so that a "&nbsp;" cell stays distinguishable from an
// empty one.
func NodeText(node *html.Node, lineBreak string) string {
	var b strings.Builder
	writeChildren(node, &b)
	text := strings.Trim(b.String(), " \t\r\n")
	return NormalizeLineBreaks(text, lineBreak)
}

func CellText(sel *goquery.Selection, lineBreak string) string {
	if sel.Length() == 0 {
		return ""
	}
	return NodeText(sel.Nodes[0], lineBreak)
}
