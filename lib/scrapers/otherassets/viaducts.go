package otherassets

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

type Viaduct struct {
	Name           string
	NameNote       string
	RailwayCompany string
	Opened         string
	ELR            string
	Mileage        string
	Status         string
	Spans          string
	Notes          string
}

func (v Viaduct) Row() []string {
	return []string{v.Name, v.NameNote, v.RailwayCompany, v.Opened, v.ELR, v.Mileage, v.Status, v.Spans, v.Notes}
}

var ViaductColumns = []string{"Name", "Name_Note", "Railway company", "Opened", "ELR", "Mileage", "Status", "Spans", "Notes"}

// railway viaducts, one page per page number.
func Viaducts() scraper.Cluster[Viaduct] {
	return scraper.Cluster[Viaduct]{
		Category: Category,
		Name:     "Railway viaducts",
		Columns:  ViaductColumns,
		IndexURL: "viaducts/viaducts0.shtm",
		Keys:     catalogue.Pages,
		URL:      catalogue.PageURL,
		Parse:    ParseViaducts,
		Fallback: scraper.NoRecords[Viaduct],
	}
}

func ParseViaducts(ctx context.Context, doc *goquery.Document, key string) ([]Viaduct, error) {
	ctx, span := tracer.Start(ctx, "ParseViaducts")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	t, err := table.FindTable(doc, table.Options{}, "Name", "Railway company", "Opened", "ELR", "Mileage", "Status", "Spans", "Notes")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no viaducts table")
		return nil, err
	}
	t.Trim()
	err = t.Split("Name", decompose.LocationName, "Name", "Name_Note")
	if err != nil {
		return nil, err
	}

	var out []Viaduct
	t.Each(func(r table.Row) {
		out = append(out, Viaduct{
			Name:           r.Get("Name"),
			NameNote:       r.Get("Name_Note"),
			RailwayCompany: r.Get("Railway company"),
			Opened:         r.Get("Opened"),
			ELR:            r.Get("ELR"),
			Mileage:        r.Get("Mileage"),
			Status:         r.Get("Status"),
			Spans:          r.Get("Spans"),
			Notes:          r.Get("Notes"),
		})
	})
	return out, nil
}
