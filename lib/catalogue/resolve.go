package catalogue

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"railcodes/lib/cache"
	"railcodes/lib/fetch"
	"railcodes/lib/htmlutil"
	"railcodes/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

var tracer = telemetry.Tracer("railcodes.lib.catalogue")

const CacheCategory = "catalogue"

// resolves index pages into catalogues, fetching each page at most once
// unless Update is set.
type Resolver struct {
	Fetcher fetch.Fetcher
	Store   cache.Store
	Update  bool
}

// "http://www.railwaycodes.org.uk/crs/crs0.shtm" -> "crs-crs0"
func CacheKey(pageURL string) cache.Key {
	name := pageURL
	if parsed, err := url.Parse(pageURL); err == nil {
		name = parsed.Path
	}
	name = strings.TrimSuffix(strings.Trim(name, "/"), path.Ext(name))
	name = strings.ReplaceAll(name, "/", "-")
	if name == "" {
		name = "index"
	}
	return cache.Key{Category: CacheCategory, Name: name, Format: cache.FormatJSON}
}

func (r Resolver) Resolve(ctx context.Context, pageURL string) (Catalogue, error) {
	pageURL = r.Fetcher.Resolve(pageURL)

	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageURL))

	key := CacheKey(pageURL)
	if !r.Update && r.Store != nil {
		var cached Catalogue
		err := r.Store.Load(ctx, key, &cached)
		if err == nil {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return cached, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "failed to load cached catalogue", "url", pageURL, "err", err)
		}
	}

	doc, err := r.Fetcher.Document(ctx, pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch index page")
		return Catalogue{}, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid page url")
		return Catalogue{}, err
	}

	cat := Catalogue{
		Source:  pageURL,
		Entries: FromDocument(ctx, doc, base),
	}
	if r.Store != nil {
		err = r.Store.Save(ctx, key, cat)
		if err != nil {
			slog.WarnContext(ctx, "failed to cache catalogue", "url", pageURL, "err", err)
		}
	}
	return cat, nil
}

// the entries of an index page: the anchors of its second nav panel, else of
// its fixed side panel, else every link that follows the first h1.
func FromDocument(ctx context.Context, doc *goquery.Document, base *url.URL) []Entry {
	ctx, span := tracer.Start(ctx, "FromDocument")
	defer span.End()

	var anchors []htmlutil.Anchor
	if navs := doc.Find("nav"); navs.Length() >= 2 {
		anchors = htmlutil.GetAnchors(ctx, navs.Eq(1).Find("a"), base)
		span.SetAttributes(attribute.String("strategy", "nav"))
	}
	if len(anchors) == 0 {
		anchors = htmlutil.GetAnchors(ctx, doc.Find("div.fixed").First().Find("a"), base)
		span.SetAttributes(attribute.String("strategy", "fixed"))
	}
	if len(anchors) == 0 {
		var links []*html.Node
		doc.Find("h1").First().NextAll().Each(func(_ int, s *goquery.Selection) {
			if s.Is("a") {
				links = append(links, s.Nodes...)
				return
			}
			links = append(links, s.Find("a").Nodes...)
		})
		anchors = htmlutil.GetAnchors(ctx, doc.Selection.FindNodes(links...), base)
		span.SetAttributes(attribute.String("strategy", "after heading"))
	}

	seen := map[string]struct{}{}
	entries := []Entry{}
	for _, a := range anchors {
		if a.Name == "" {
			continue
		}
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		entries = append(entries, Entry{Heading: a.Name, URL: a.Href})
	}
	return entries
}
