package otherassets

import (
	"context"
	"math"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/scraper"
	"railcodes/lib/table"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Tunnel struct {
	Name         string
	NameNote     string
	OtherNames   string
	Metres       float64
	LengthNote   string
	ELR          string
	MileageStart string
	MileageEnd   string
	// where the tunnel starts and ends along its ELR, NaN when unknown
	StartMetres float64
	EndMetres   float64
}

func (t Tunnel) Row() []string {
	return []string{
		t.Name, t.NameNote, t.OtherNames, formatFloat(t.Metres), t.LengthNote, t.ELR,
		t.MileageStart, t.MileageEnd, formatFloat(t.StartMetres), formatFloat(t.EndMetres),
	}
}

var TunnelColumns = []string{
	"Name", "Name_Note", "Other names, remarks", "Length_metres", "Length_note", "ELR",
	"Mileage_start", "Mileage_end", "Mileage_start_metres", "Mileage_end_metres",
}

// railway tunnel lengths, one page per page number, the last being
// "Page 4 (others)".
func Tunnels() scraper.Cluster[Tunnel] {
	return scraper.Cluster[Tunnel]{
		Category: Category,
		Name:     "Railway tunnel lengths",
		Columns:  TunnelColumns,
		IndexURL: "tunnels/tunnels0.shtm",
		Keys:     catalogue.Pages,
		URL:      catalogue.PageURL,
		Parse:    ParseTunnels,
		Fallback: scraper.NoRecords[Tunnel],
	}
}

func ParseTunnels(ctx context.Context, doc *goquery.Document, key string) ([]Tunnel, error) {
	ctx, span := tracer.Start(ctx, "ParseTunnels")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	t, err := table.FindTable(doc, table.Options{}, "Name", "Other names", "Length", "ELR", "Mileage")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no tunnels table")
		return nil, err
	}
	t.Trim()
	err = t.Split("Name", decompose.LocationName, "Name", "Name_Note")
	if err != nil {
		return nil, err
	}
	err = t.Split("Mileage", decompose.MileageRange, "Mileage_start", "Mileage_end")
	if err != nil {
		return nil, err
	}

	var out []Tunnel
	t.Each(func(r table.Row) {
		metres, note := decompose.Length(r.Get("Length"))
		out = append(out, Tunnel{
			Name:         r.Get("Name"),
			NameNote:     r.Get("Name_Note"),
			OtherNames:   r.Get("Other names"),
			Metres:       metres,
			LengthNote:   note,
			ELR:          r.Get("ELR"),
			MileageStart: r.Get("Mileage_start"),
			MileageEnd:   r.Get("Mileage_end"),
			StartMetres:  decompose.ParseMileage(r.Get("Mileage_start")).Metres(),
			EndMetres:    decompose.ParseMileage(r.Get("Mileage_end")).Metres(),
		})
	})
	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}

// the summed length of `tunnels`, those with an unknown length are skipped.
func TotalMetres(tunnels []Tunnel) float64 {
	total := 0.0
	for _, t := range tunnels {
		if !math.IsNaN(t.Metres) {
			total += t.Metres
		}
	}
	return total
}
