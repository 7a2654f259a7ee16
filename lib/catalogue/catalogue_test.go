package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"railcodes/lib/cache"
	"railcodes/lib/fetch"
	"railcodes/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const navPage = `<html><body>
<nav><a href="/">Home</a><a href="/misc/contact.shtm">Contact</a></nav>
<h1>CRS, NLC, TIPLOC and STANOX codes</h1>
<nav>
	<a href="crsa.shtm">A</a>
	<a href="crsb.shtm">B</a>
	<a href="crsc.shtm"> C </a>
	<a>no href</a>
</nav>
</body></html>`

const fixedPage = `<html><body>
<div class="fixed">
	<a href="/tunnels/tunnels1.shtm">Page 1 (A-F)</a>
	<a href="/tunnels/tunnels2.shtm">Page 2 (G-P)</a>
	<a href="/tunnels/tunnels3.shtm">Page 3 (Q-Z)</a>
	<a href="/tunnels/tunnels4.shtm">Page 4 (others)</a>
</div>
</body></html>`

const headingPage = `<html><body>
<a href="/ignored.shtm">Before</a>
<h1>Line names</h1>
<p>See <a href="/line/line0.shtm">Line names</a> and <a href="/line/line1.shtm">Line name abbreviations</a></p>
<a href="/line/line2.shtm">Line name  history</a>
</body></html>`

func parse(t *testing.T, body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestFromDocument(t *testing.T) {
	base, _ := url.Parse("http://www.railwaycodes.org.uk/crs/crs0.shtm")
	ctx := context.Background()

	entries := FromDocument(ctx, parse(t, navPage), base)
	require.Equal(t, []Entry{
		{Heading: "A", URL: "http://www.railwaycodes.org.uk/crs/crsa.shtm"},
		{Heading: "B", URL: "http://www.railwaycodes.org.uk/crs/crsb.shtm"},
		{Heading: "C", URL: "http://www.railwaycodes.org.uk/crs/crsc.shtm"},
	}, entries)

	entries = FromDocument(ctx, parse(t, fixedPage), base)
	require.Len(t, entries, 4)
	require.Equal(t, "Page 4 (others)", entries[3].Heading)
	require.Equal(t, "http://www.railwaycodes.org.uk/tunnels/tunnels4.shtm", entries[3].URL)

	entries = FromDocument(ctx, parse(t, headingPage), base)
	require.Equal(t, []string{"Line names", "Line name abbreviations", "Line name history"}, Catalogue{Entries: entries}.Keys())
}

func TestLookups(t *testing.T) {
	base, _ := url.Parse("http://www.railwaycodes.org.uk/tunnels/tunnels0.shtm")
	tunnels := Catalogue{Entries: FromDocument(context.Background(), parse(t, fixedPage), base)}

	heading, err := PageHeading(tunnels, 4)
	require.NoError(t, err)
	require.Equal(t, "Page 4 (others)", heading)

	_, err = PageHeading(tunnels, 5)
	require.True(t, errors.Is(err, ErrNotFound))

	crs := Catalogue{Entries: FromDocument(context.Background(), parse(t, navPage), base)}
	link, err := LetterURL(crs, "b")
	require.NoError(t, err)
	require.Equal(t, "http://www.railwaycodes.org.uk/tunnels/crsb.shtm", link)
	require.Equal(t, []string{"A", "B", "C"}, Letters(crs))

	_, err = LetterURL(crs, "Z")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = LetterURL(crs, "AB")
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = tunnels.URL("Page 4 (other)")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	require.Equal(t, "Page 4 (others)", lookupErr.Suggestion)

	_, err = tunnels.URL("something else entirely")
	require.True(t, errors.As(err, &lookupErr))
	require.Equal(t, "", lookupErr.Suggestion)
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, "catalogue/crs-crs0.json", CacheKey("http://www.railwaycodes.org.uk/crs/crs0.shtm").Path())
	require.Equal(t, "catalogue/index.json", CacheKey("http://www.railwaycodes.org.uk/").Path())
}

func TestResolveIsIdempotent(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/catalogue")
	defer cleanup()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(navPage))
	}))
	defer server.Close()

	client, err := fetch.NewClient(fetch.ClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	resolver := Resolver{
		Fetcher: client,
		Store:   cache.NewFileStore(t.TempDir()),
	}

	ctx := context.Background()
	first, err := resolver.Resolve(ctx, "crs/crs0.shtm")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	second, err := resolver.Resolve(ctx, "crs/crs0.shtm")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, firstJSON, secondJSON)

	resolver.Update = true
	_, err = resolver.Resolve(ctx, "crs/crs0.shtm")
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())
}

func TestPages(t *testing.T) {
	base, _ := url.Parse("http://www.railwaycodes.org.uk/tunnels/tunnels0.shtm")
	tunnels := Catalogue{Entries: FromDocument(context.Background(), parse(t, fixedPage), base)}
	require.Equal(t, []string{"1", "2", "3", "4"}, Pages(tunnels))

	link, err := PageURL(tunnels, "4")
	require.NoError(t, err)
	require.Equal(t, "http://www.railwaycodes.org.uk/tunnels/tunnels4.shtm", link)
	link, err = PageURL(tunnels, "Page 2")
	require.NoError(t, err)
	require.Equal(t, "http://www.railwaycodes.org.uk/tunnels/tunnels2.shtm", link)

	_, err = PageURL(tunnels, "four")
	require.ErrorIs(t, err, ErrNotFound)
}
