package linedata

import (
	"context"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/scraper"
	"railcodes/lib/table"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// one location with one value for each of its codes.
type LocationCodes struct {
	Location     string
	LocationNote string
	CRS          string
	CRSNote      string
	NLC          string
	NLCNote      string
	TIPLOC       string
	TIPLOCNote   string
	STANME       string
	STANMENote   string
	STANOX       string
	STANOXNote   string
}

func (l LocationCodes) Row() []string {
	return []string{
		l.Location, l.LocationNote,
		l.CRS, l.CRSNote,
		l.NLC, l.NLCNote,
		l.TIPLOC, l.TIPLOCNote,
		l.STANME, l.STANMENote,
		l.STANOX, l.STANOXNote,
	}
}

var codeColumns = []string{"CRS", "NLC", "TIPLOC", "STANME", "STANOX"}

var LocationColumns = []string{
	"Location", "Location_Note",
	"CRS", "CRS_Note",
	"NLC", "NLC_Note",
	"TIPLOC", "TIPLOC_Note",
	"STANME", "STANME_Note",
	"STANOX", "STANOX_Note",
}

// CRS, NLC, TIPLOC, STANME and STANOX codes, one page per initial letter.
func LocationIdentifiers() scraper.Cluster[LocationCodes] {
	return scraper.Cluster[LocationCodes]{
		Category: Category,
		Name:     "CRS, NLC, TIPLOC and STANOX",
		Columns:  LocationColumns,
		IndexURL: "crs/crs0.shtm",
		Keys:     catalogue.Letters,
		URL:      catalogue.LetterURL,
		Parse:    ParseLocationCodes,
		Fallback: scraper.NoRecords[LocationCodes],
	}
}

// reads the codes table of one letter page. a location listing several
// codes in one cell becomes one record per code.
func ParseLocationCodes(ctx context.Context, doc *goquery.Document, key string) ([]LocationCodes, error) {
	ctx, span := tracer.Start(ctx, "ParseLocationCodes")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	// multiple codes in one cell are separated by line breaks
	t, err := table.FindTable(doc, table.Options{LineBreak: "\n"}, append([]string{"Location"}, codeColumns...)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no codes table")
		return nil, err
	}

	t, err = table.Explode(t, table.ExplodeOptions{
		Columns:    append([]string{"Location"}, codeColumns...),
		NameColumn: "Location",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to explode multi-value cells")
		return nil, err
	}

	err = t.Split("Location", decompose.LocationName, "Location", "Location_Note")
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"CRS", "NLC", "TIPLOC", "STANME"} {
		err = t.Split(col, decompose.Code, col, col+"_Note")
		if err != nil {
			return nil, err
		}
	}
	err = t.Split("STANOX", decompose.Stanox, "STANOX", "STANOX_Note")
	if err != nil {
		return nil, err
	}
	err = t.Map("STANOX", decompose.FixStanox)
	if err != nil {
		return nil, err
	}

	var out []LocationCodes
	t.Each(func(r table.Row) {
		out = append(out, LocationCodes{
			Location:     r.Get("Location"),
			LocationNote: r.Get("Location_Note"),
			CRS:          r.Get("CRS"),
			CRSNote:      r.Get("CRS_Note"),
			NLC:          r.Get("NLC"),
			NLCNote:      r.Get("NLC_Note"),
			TIPLOC:       r.Get("TIPLOC"),
			TIPLOCNote:   r.Get("TIPLOC_Note"),
			STANME:       r.Get("STANME"),
			STANMENote:   r.Get("STANME_Note"),
			STANOX:       r.Get("STANOX"),
			STANOXNote:   r.Get("STANOX_Note"),
		})
	})
	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}
