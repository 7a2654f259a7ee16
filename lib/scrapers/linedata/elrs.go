package linedata

import (
	"context"
	"math"
	"strconv"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/scraper"
	"railcodes/lib/table"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// an engineer's line reference and the stretch of line it covers.
type ELR struct {
	ELR          string
	LineName     string
	LineNameNote string
	MileageStart string
	MileageEnd   string
	// NaN when the mileage is missing or unreadable
	StartMetres float64
	EndMetres   float64
	Datum       string
	Notes       string
}

func (e ELR) Row() []string {
	return []string{
		e.ELR, e.LineName, e.LineNameNote, e.MileageStart, e.MileageEnd,
		formatMetres(e.StartMetres), formatMetres(e.EndMetres), e.Datum, e.Notes,
	}
}

var ELRColumns = []string{
	"ELR", "Line name", "Line name_Note", "Mileage_start", "Mileage_end",
	"Mileage_start_metres", "Mileage_end_metres", "Datum", "Notes",
}

func formatMetres(m float64) string {
	if math.IsNaN(m) {
		return ""
	}
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// engineer's line references, one page per initial letter.
func ELRs() scraper.Cluster[ELR] {
	return scraper.Cluster[ELR]{
		Category: Category,
		Name:     "Engineer's Line References",
		Columns:  ELRColumns,
		IndexURL: "elrs/elr0.shtm",
		Keys:     catalogue.Letters,
		URL:      catalogue.LetterURL,
		Parse:    ParseELRs,
		Fallback: scraper.NoRecords[ELR],
	}
}

func ParseELRs(ctx context.Context, doc *goquery.Document, key string) ([]ELR, error) {
	ctx, span := tracer.Start(ctx, "ParseELRs")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	t, err := table.FindTable(doc, table.Options{}, "ELR", "Line name", "Mileages", "Datum", "Notes")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no ELR table")
		return nil, err
	}
	t.Trim()

	err = t.Split("Line name", decompose.NoteInBrackets, "Line name", "Line name_Note")
	if err != nil {
		return nil, err
	}
	err = t.Split("Mileages", decompose.MileageRange, "Mileage_start", "Mileage_end")
	if err != nil {
		return nil, err
	}

	var out []ELR
	t.Each(func(r table.Row) {
		out = append(out, ELR{
			ELR:          r.Get("ELR"),
			LineName:     r.Get("Line name"),
			LineNameNote: r.Get("Line name_Note"),
			MileageStart: r.Get("Mileage_start"),
			MileageEnd:   r.Get("Mileage_end"),
			StartMetres:  decompose.ParseMileage(r.Get("Mileage_start")).Metres(),
			EndMetres:    decompose.ParseMileage(r.Get("Mileage_end")).Metres(),
			Datum:        r.Get("Datum"),
			Notes:        r.Get("Notes"),
		})
	})
	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}
