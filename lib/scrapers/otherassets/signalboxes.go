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

type SignalBox struct {
	Code          string
	CodeNote      string
	SignalBox     string
	SignalBoxNote string
	Location      string
	Opened        string
	Closed        string
	ControlTo     string
}

func (s SignalBox) Row() []string {
	return []string{s.Code, s.CodeNote, s.SignalBox, s.SignalBoxNote, s.Location, s.Opened, s.Closed, s.ControlTo}
}

var SignalBoxColumns = []string{"Code", "Code_Note", "Signal Box", "Signal Box_Note", "Location", "Opened", "Closed", "Control to"}

// signal box prefix codes, one page per initial letter.
func SignalBoxes() scraper.Cluster[SignalBox] {
	return scraper.Cluster[SignalBox]{
		Category: Category,
		Name:     "Signal box prefix codes",
		Columns:  SignalBoxColumns,
		IndexURL: "signal/signal_boxes0.shtm",
		Keys:     catalogue.Letters,
		URL:      catalogue.LetterURL,
		Parse:    ParseSignalBoxes,
		Fallback: scraper.NoRecords[SignalBox],
	}
}

func ParseSignalBoxes(ctx context.Context, doc *goquery.Document, key string) ([]SignalBox, error) {
	ctx, span := tracer.Start(ctx, "ParseSignalBoxes")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	t, err := table.FindTable(doc, table.Options{}, "Code", "Signal Box", "Location", "Opened", "Closed", "Control to")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no signal box table")
		return nil, err
	}
	t.Trim()
	// "AC see AA" points a retired prefix at the one that replaced it
	err = t.Split("Code", decompose.CodeWithRemark, "Code", "Code_Note")
	if err != nil {
		return nil, err
	}
	err = t.Split("Signal Box", decompose.LocationName, "Signal Box", "Signal Box_Note")
	if err != nil {
		return nil, err
	}

	var out []SignalBox
	t.Each(func(r table.Row) {
		out = append(out, SignalBox{
			Code:          r.Get("Code"),
			CodeNote:      r.Get("Code_Note"),
			SignalBox:     r.Get("Signal Box"),
			SignalBoxNote: r.Get("Signal Box_Note"),
			Location:      r.Get("Location"),
			Opened:        r.Get("Opened"),
			Closed:        r.Get("Closed"),
			ControlTo:     r.Get("Control to"),
		})
	})
	return out, nil
}
