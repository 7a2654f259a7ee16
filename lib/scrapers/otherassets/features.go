package otherassets

import (
	"context"
	"fmt"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/scraper"
	"railcodes/lib/table"
	"railcodes/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	HABD = "HABD"
	WILD = "WILD"
)

// a hot axle box detector or wheel impact load detector.
type Feature struct {
	Kind     string
	ELR      string
	Mileage  string
	Tracks   string
	Name     string
	NameNote string
	Notes    string
}

func (f Feature) Row() []string {
	return []string{f.Kind, f.ELR, f.Mileage, f.Tracks, f.Name, f.NameNote, f.Notes}
}

var FeatureColumns = []string{"Feature", "ELR", "Mileage", "Tracks", "Name", "Name_Note", "Notes"}

const (
	featuresKey  = "HABD and WILD"
	featuresPage = "misc/habdwild.shtm"
)

// both detector tables live on one page, each under its own heading.
func Features() scraper.Cluster[Feature] {
	return scraper.Cluster[Feature]{
		Category: Category,
		Name:     featuresKey,
		Columns:  FeatureColumns,
		Keys: func(catalogue.Catalogue) []string {
			return []string{featuresKey}
		},
		URL: func(catalogue.Catalogue, string) (string, error) {
			return featuresPage, nil
		},
		Parse:    ParseFeatures,
		Fallback: scraper.NoRecords[Feature],
	}
}

func featureKind(title string) string {
	for _, kind := range []string{HABD, WILD} {
		if textutil.MatchName(title, []string{kind}) {
			return kind
		}
	}
	return ""
}

func ParseFeatures(ctx context.Context, doc *goquery.Document, _ string) ([]Feature, error) {
	ctx, span := tracer.Start(ctx, "ParseFeatures")
	defer span.End()

	var out []Feature
	found := 0
	for _, titled := range table.ParseTables(doc, "h2, h3", table.Options{}) {
		kind := featureKind(titled.Title)
		if kind == "" {
			continue
		}
		t := titled.Table
		t.CanonicalColumns("ELR", "Mileage", "Tracks", "Name", "Notes")
		if t.Index("ELR") < 0 || t.Index("Mileage") < 0 {
			continue
		}
		found++
		t.Trim()

		t.Each(func(r table.Row) {
			name, note := decompose.LocationName(r.Get("Name"))
			out = append(out, Feature{
				Kind:     kind,
				ELR:      r.Get("ELR"),
				Mileage:  r.Get("Mileage"),
				Tracks:   r.Get("Tracks"),
				Name:     name,
				NameNote: note,
				Notes:    r.Get("Notes"),
			})
		})
	}
	if found == 0 {
		err := fmt.Errorf("%w under a %s or %s heading", table.ErrNoTable, HABD, WILD)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no feature tables")
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}

// splits features into their HABD and WILD sub-tables.
func GroupFeatures(features []Feature) map[string][]Feature {
	out := map[string][]Feature{}
	for _, f := range features {
		out[f.Kind] = append(out[f.Kind], f)
	}
	return out
}
