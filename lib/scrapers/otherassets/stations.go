package otherassets

import (
	"context"

	"railcodes/lib/catalogue"
	"railcodes/lib/decompose"
	"railcodes/lib/htmlutil"
	"railcodes/lib/scraper"
	"railcodes/lib/table"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// one station at one ELR and mileage, a station on several lines gives
// several records.
type Station struct {
	Station        string
	StationNote    string
	ELR            string
	Mileage        string
	Status         string
	Owner          string
	FormerOwner    string
	Operator       string
	FormerOperator string
	Longitude      float64
	LongitudeNote  string
	Latitude       float64
	LatitudeNote   string
	GridReference  string
}

func (s Station) Row() []string {
	return []string{
		s.Station, s.StationNote, s.ELR, s.Mileage, s.Status,
		s.Owner, s.FormerOwner, s.Operator, s.FormerOperator,
		formatFloat(s.Longitude), s.LongitudeNote, formatFloat(s.Latitude), s.LatitudeNote, s.GridReference,
	}
}

var StationColumns = []string{
	"Station", "Station_Note", "ELR", "Mileage", "Status",
	"Owner", "Former Owner", "Operator", "Former Operator",
	"Degrees Longitude", "Degrees Longitude_Note", "Degrees Latitude", "Degrees Latitude_Note", "Grid Reference",
}

// railway station data, one page per initial letter.
func Stations() scraper.Cluster[Station] {
	return scraper.Cluster[Station]{
		Category: Category,
		Name:     "Railway station data",
		Columns:  StationColumns,
		IndexURL: "stations/station0.shtm",
		Keys:     catalogue.Letters,
		URL:      catalogue.LetterURL,
		Parse:    ParseStations,
		Fallback: scraper.NoRecords[Station],
	}
}

func ParseStations(ctx context.Context, doc *goquery.Document, key string) ([]Station, error) {
	ctx, span := tracer.Start(ctx, "ParseStations")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	t, err := table.FindTable(
		doc, table.Options{},
		"Station", "ELR", "Mileage", "Status", "Owner", "Operator",
		"Degrees Longitude", "Degrees Latitude", "Grid Reference",
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no stations table")
		return nil, err
	}

	// only the ELR and mileage columns list parallel values. owners and
	// operators keep their " / " since it separates former values.
	multi := []string{"Station", "ELR", "Mileage"}
	err = t.MarkMultiValues(multi, htmlutil.DefaultLineBreak)
	if err != nil {
		return nil, err
	}
	t, err = table.Explode(t, table.ExplodeOptions{
		Columns:    multi,
		NameColumn: "Station",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to explode multi-value cells")
		return nil, err
	}

	err = t.Split("Station", decompose.LocationName, "Station", "Station_Note")
	if err != nil {
		return nil, err
	}
	err = t.Split("Owner", decompose.OwnerOperator, "Owner", "Former Owner")
	if err != nil {
		return nil, err
	}
	err = t.Split("Operator", decompose.OwnerOperator, "Operator", "Former Operator")
	if err != nil {
		return nil, err
	}

	var out []Station
	t.Each(func(r table.Row) {
		longitude, longitudeNote := decompose.Coordinate(r.Get("Degrees Longitude"))
		latitude, latitudeNote := decompose.Coordinate(r.Get("Degrees Latitude"))
		out = append(out, Station{
			Station:        r.Get("Station"),
			StationNote:    r.Get("Station_Note"),
			ELR:            r.Get("ELR"),
			Mileage:        r.Get("Mileage"),
			Status:         r.Get("Status"),
			Owner:          r.Get("Owner"),
			FormerOwner:    r.Get("Former Owner"),
			Operator:       r.Get("Operator"),
			FormerOperator: r.Get("Former Operator"),
			Longitude:      longitude,
			LongitudeNote:  longitudeNote,
			Latitude:       latitude,
			LatitudeNote:   latitudeNote,
			GridReference:  r.Get("Grid Reference"),
		})
	})
	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}
