package linedata

import (
	"context"
	"math"
	"strings"
	"testing"

	"railcodes/lib/scraper"
	"railcodes/lib/table"
	"railcodes/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

const crsPage = `<html><body>
<h1>CRS, NLC, TIPLOC and STANOX codes: A</h1>
<table>
<tr><th>Location</th><th>CRS</th><th>NLC</th><th>TIPLOC</th><th>STANME</th><th>STANOX</th></tr>
<tr><td>Abbey Wood</td><td>ABW</td><td>5131</td><td>ABWD</td><td>ABBEYWOOD</td><td>88401</td></tr>
<tr><td>Abercynon (formerly Abercynon South)</td><td>ACY</td><td>3924</td><td>ABCYNON</td><td>ABERCYNON</td><td>76008*</td></tr>
<tr><td rowspan="2">Aberdeen</td><td>ABD</td><td>8975<br>8976</td><td>ABRDEEN<br>ABRDNDS</td><td>ABERDEEN<br>ABERD DSD</td><td>07900</td></tr>
<tr><td>ABX <em>closed</em></td><td>8977</td><td>ABRDNX</td><td>ABERDNX</td><td>7901</td></tr>
</table>
<p>Last updated: 18 June 2020</p>
</body></html>`

func TestParseLocationCodes(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scrapers/linedata")
	defer cleanup()

	records, err := ParseLocationCodes(context.Background(), parse(t, crsPage), "A")
	require.NoError(t, err)

	expected := []LocationCodes{
		{Location: "Abbey Wood", CRS: "ABW", NLC: "5131", TIPLOC: "ABWD", STANME: "ABBEYWOOD", STANOX: "88401"},
		{
			Location: "Abercynon", LocationNote: "formerly Abercynon South",
			CRS: "ACY", NLC: "3924", TIPLOC: "ABCYNON", STANME: "ABERCYNON",
			STANOX: "76008", STANOXNote: "Pseudo STANOX",
		},
		{Location: "Aberdeen", CRS: "ABD", NLC: "8975", TIPLOC: "ABRDEEN", STANME: "ABERDEEN", STANOX: "07900"},
		{Location: "Aberdeen", CRS: "ABD", NLC: "8976", TIPLOC: "ABRDNDS", STANME: "ABERD DSD", STANOX: "07900"},
		{Location: "Aberdeen", CRS: "ABX", CRSNote: "closed", NLC: "8977", TIPLOC: "ABRDNX", STANME: "ABERDNX", STANOX: "07901"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, records[0].Row(), len(LocationColumns))
}

func TestParseLocationCodesWithoutTable(t *testing.T) {
	_, err := ParseLocationCodes(context.Background(), parse(t, `<p>nothing</p>`), "Q")
	require.ErrorIs(t, err, table.ErrNoTable)
}

const elrPage = `<html><body>
<table>
<tr><th>ELR</th><th>Line name</th><th>Mileages</th><th>Datum</th><th>Notes</th></tr>
<tr><td>AAV</td><td>Ashchurch and Evesham Line [closed]</td><td>0.00 - 7.51</td><td>Ashchurch</td><td>Now closed</td></tr>
<tr><td>ABB</td><td>Abbey Line</td><td>0.00-6.64</td><td>Watford Junction</td><td></td></tr>
<tr><td>ABD</td><td>Aberdeen</td><td>3.12</td></tr>
</table>
</body></html>`

func TestParseELRs(t *testing.T) {
	records, err := ParseELRs(context.Background(), parse(t, elrPage), "A")
	require.NoError(t, err)

	expected := []ELR{
		{
			ELR: "AAV", LineName: "Ashchurch and Evesham Line", LineNameNote: "closed",
			MileageStart: "0.00", MileageEnd: "7.51", StartMetres: 0, EndMetres: 12291.3648,
			Datum: "Ashchurch", Notes: "Now closed",
		},
		{
			ELR: "ABB", LineName: "Abbey Line",
			MileageStart: "0.00", MileageEnd: "6.64", StartMetres: 0, EndMetres: 10943.5392,
			Datum: "Watford Junction",
		},
		{ELR: "ABD", LineName: "Aberdeen", MileageStart: "3.12", StartMetres: 5069.4336, EndMetres: math.NaN()},
	}
	if diff := cmp.Diff(expected, records, cmpopts.EquateNaNs(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "12291.3648", records[0].Row()[6])
	require.Equal(t, "", records[2].Row()[6])
}

const lineNamesFixture = `<html><body>
<table>
<tr><th>Line name</th><th>Route</th></tr>
<tr><td>Abbey Line</td><td>Watford Junction - St Albans Abbey</td></tr>
<tr><td>DC lines</td><td>Watford - Euston suburban route (DC lines)</td></tr>
<tr><td>Thameslink</td><td>Bedford - Brighton, including Moorgate - Farringdon</td></tr>
<tr><td>Cotswold Line</td><td>Oxford - Worcester (Hereford)</td></tr>
</table>
</body></html>`

func TestParseLineNames(t *testing.T) {
	records, err := ParseLineNames(context.Background(), parse(t, lineNamesFixture), lineNamesKey)
	require.NoError(t, err)

	expected := []LineName{
		{LineName: "Abbey Line", Route: "Watford Junction - St Albans Abbey"},
		{LineName: "DC lines", Route: "Watford - Euston suburban route", RouteNote: "Watford - Euston suburban route (DC lines)"},
		{LineName: "Thameslink", Route: "Bedford - Brighton", RouteNote: "including Moorgate - Farringdon"},
		{LineName: "Cotswold Line", Route: "Oxford - Worcester", RouteNote: "Hereford"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister(t *testing.T) {
	reg := scraper.NewRegistry()
	Register(reg, scraper.Env{})
	require.Equal(t, []string{"CRS, NLC, TIPLOC and STANOX", "Engineer's Line References", "Line names"}, reg.Names())
}
