package linedata

import (
	"context"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/scraper"
	"railcodes/lib/table"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type LineName struct {
	LineName  string
	Route     string
	RouteNote string
}

func (l LineName) Row() []string {
	return []string{l.LineName, l.Route, l.RouteNote}
}

var LineNameColumns = []string{"Line name", "Route", "Route_note"}

const (
	lineNamesKey  = "Line names"
	lineNamesPage = "misc/line_names.shtm"
)

// the named lines and the routes they run, all on one page.
func LineNames() scraper.Cluster[LineName] {
	return scraper.Cluster[LineName]{
		Category: Category,
		Name:     lineNamesKey,
		Columns:  LineNameColumns,
		Keys: func(catalogue.Catalogue) []string {
			return []string{lineNamesKey}
		},
		URL: func(catalogue.Catalogue, string) (string, error) {
			return lineNamesPage, nil
		},
		Parse:    ParseLineNames,
		Fallback: scraper.NoRecords[LineName],
	}
}

func ParseLineNames(ctx context.Context, doc *goquery.Document, _ string) ([]LineName, error) {
	ctx, span := tracer.Start(ctx, "ParseLineNames")
	defer span.End()

	t, err := table.FindTable(doc, table.Options{}, "Line name", "Route")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no line names table")
		return nil, err
	}
	t.Trim()

	err = t.Split("Route", decompose.Route, "Route", "Route_note")
	if err != nil {
		return nil, err
	}

	var out []LineName
	t.Each(func(r table.Row) {
		out = append(out, LineName{
			LineName:  r.Get("Line name"),
			Route:     r.Get("Route"),
			RouteNote: r.Get("Route_note"),
		})
	})
	return out, nil
}
