package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"railcodes/lib/cache"
	"railcodes/lib/catalogue"
	"railcodes/lib/fetch"
	"railcodes/lib/htmlutil"
	"railcodes/lib/table"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// what every collector built from the same command line shares.
type Env struct {
	Fetcher fetch.Fetcher
	Store   cache.Store
	Options Options
}

type Collector[T Record] struct {
	Cluster Cluster[T]
	Fetcher fetch.Fetcher
	Store   cache.Store
	Options Options

	catalogue *catalogue.Catalogue
}

func NewCollector[T Record](cluster Cluster[T], env Env) *Collector[T] {
	return &Collector[T]{
		Cluster: cluster,
		Fetcher: env.Fetcher,
		Store:   env.Store,
		Options: env.Options,
	}
}

func (c *Collector[T]) Name() string {
	return c.Cluster.Name
}

func (c *Collector[T]) pageKey(key string) cache.Key {
	return cache.Key{Category: c.Cluster.Category, Cluster: c.Cluster.Name, Name: key}
}

// sits beside the cluster's page directory, "line-data/line-names.gob" next
// to "line-data/line-names/line-names.gob", so single page clusters keyed by
// their own name do not collide.
func (c *Collector[T]) aggregateKey() cache.Key {
	return cache.Key{Category: c.Cluster.Category, Name: c.Cluster.Name}
}

func (c *Collector[T]) progress(ctx context.Context, msg string, args ...any) {
	if c.Options.Verbose {
		slog.InfoContext(ctx, msg, args...)
		return
	}
	slog.DebugContext(ctx, msg, args...)
}

func (c *Collector[T]) confirm(prompt string) bool {
	if !c.Options.ConfirmationRequired || c.Options.Confirm == nil {
		return true
	}
	return c.Options.Confirm(prompt)
}

// the cluster's catalogue, resolved on first use.
func (c *Collector[T]) Catalogue(ctx context.Context) (catalogue.Catalogue, error) {
	if c.catalogue != nil {
		return *c.catalogue, nil
	}
	// single page clusters have no index
	if c.Cluster.IndexURL == "" {
		c.catalogue = &catalogue.Catalogue{}
		return *c.catalogue, nil
	}
	resolver := catalogue.Resolver{
		Fetcher: c.Fetcher,
		Store:   c.Store,
		Update:  c.Options.Update,
	}
	cat, err := resolver.Resolve(ctx, c.Cluster.IndexURL)
	if err != nil {
		return catalogue.Catalogue{}, err
	}
	c.catalogue = &cat
	return cat, nil
}

func (c *Collector[T]) Keys(ctx context.Context) ([]string, error) {
	cat, err := c.Catalogue(ctx)
	if err != nil {
		return nil, err
	}
	return c.Cluster.Keys(cat), nil
}

// the page of `key` as it was cached, without network access.
func (c *Collector[T]) Cached(ctx context.Context, key string) (Page[T], error) {
	var page Page[T]
	err := c.Store.Load(ctx, c.pageKey(key), &page)
	return page, err
}

// the cached page of `key` rendered as a table.
func (c *Collector[T]) Table(ctx context.Context, key string) (*table.Table, error) {
	page, err := c.Cached(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.Cluster.Table(page.Records), nil
}

// used when the source site cannot be reached: a stale cached page if there
// is one, else the cluster's fallback record.
func (c *Collector[T]) recover(ctx context.Context, key string, cause error) (Page[T], error) {
	stale, err := c.Cached(ctx, key)
	if err == nil {
		slog.WarnContext(ctx, "source site unreachable, using cached page", "cluster", c.Cluster.Name, "key", key, "err", cause)
		stale.Stale = true
		return stale, nil
	}
	if c.Cluster.Fallback != nil {
		slog.WarnContext(ctx, "source site unreachable, using fallback record", "cluster", c.Cluster.Name, "key", key, "err", cause)
		return Page[T]{Key: key, Records: c.Cluster.Fallback(key), Fallback: true}, nil
	}
	return Page[T]{}, cause
}

func (c *Collector[T]) collectKey(ctx context.Context, key string) (Page[T], error) {
	ctx, span := tracer.Start(ctx, "collectKey")
	defer span.End()
	span.SetAttributes(
		attribute.String("cluster", c.Cluster.Name),
		attribute.String("key", key),
	)

	cacheKey := c.pageKey(key)
	if !c.Options.Update {
		page, err := c.Cached(ctx, key)
		if err == nil {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return page, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "failed to load cached page", "key", cacheKey.Path(), "err", err)
		}
	}

	cat, err := c.Catalogue(ctx)
	if fetch.IsConnectivityError(err) {
		return c.recover(ctx, key, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve catalogue")
		return Page[T]{}, err
	}
	url, err := c.Cluster.URL(cat, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "key not in catalogue")
		return Page[T]{}, err
	}

	c.progress(ctx, "collecting", "cluster", c.Cluster.Name, "key", key, "url", url)
	doc, err := c.Fetcher.Document(ctx, url)
	if fetch.IsConnectivityError(err) {
		return c.recover(ctx, key, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return Page[T]{}, err
	}

	records, err := c.Cluster.Parse(ctx, doc, key)
	if err != nil {
		err = &ParseError{Cluster: c.Cluster.Name, Key: key, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page")
		return Page[T]{}, err
	}

	page := Page[T]{
		Key:         key,
		Source:      url,
		LastUpdated: htmlutil.LastUpdatedDate(doc),
		Records:     records,
	}
	err = c.Store.Save(ctx, cacheKey, page)
	if err != nil {
		slog.WarnContext(ctx, "failed to cache page", "key", cacheKey.Path(), "err", err)
	}
	c.progress(ctx, "collected", "cluster", c.Cluster.Name, "key", key, "records", len(records))
	return page, nil
}

// collects the page of one key. in best effort mode a failure is logged and
// a nil page returned.
func (c *Collector[T]) CollectKey(ctx context.Context, key string) (*Page[T], error) {
	if !c.confirm(fmt.Sprintf("To collect %s for %q?", c.Cluster.Name, key)) {
		return nil, c.translate(ctx, ErrCancelled)
	}
	page, err := c.collectKey(ctx, key)
	if err != nil {
		return nil, c.translate(ctx, err)
	}
	return &page, nil
}

// the error a caller sees: itself in strict mode, logged and dropped
// otherwise.
func (c *Collector[T]) translate(ctx context.Context, err error) error {
	if c.Options.Strict {
		return err
	}
	if errors.Is(err, ErrCancelled) {
		slog.InfoContext(ctx, "cancelled", "cluster", c.Cluster.Name)
		return nil
	}
	slog.ErrorContext(ctx, "failed to collect", "cluster", c.Cluster.Name, "err", err)
	return nil
}

// collects every key of the cluster in catalogue order. keys missing from
// the catalogue are recorded as having no data. the aggregate is cached
// only when every key was freshly collected or cached.
func (c *Collector[T]) Collect(ctx context.Context) (*Collection[T], error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()
	span.SetAttributes(attribute.String("cluster", c.Cluster.Name))

	if !c.confirm(fmt.Sprintf("To collect %s?", c.Cluster.Name)) {
		return c.failCollection(ctx, ErrCancelled)
	}

	aggregate := c.aggregateKey()
	if !c.Options.Update {
		var cached Collection[T]
		err := c.Store.Load(ctx, aggregate, &cached)
		if err == nil {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return &cached, nil
		}
	}

	keys, err := c.Keys(ctx)
	if fetch.IsConnectivityError(err) {
		var stale Collection[T]
		if c.Store.Load(ctx, aggregate, &stale) == nil {
			slog.WarnContext(ctx, "source site unreachable, using cached collection", "cluster", c.Cluster.Name, "err", err)
			return &stale, nil
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve catalogue")
		return c.failCollection(ctx, err)
	}

	collection := Collection[T]{
		Cluster: c.Cluster.Name,
		Keys:    keys,
		Data:    make(map[string][]T, len(keys)),
	}
	if c.Cluster.IndexURL != "" {
		collection.Source = c.Fetcher.Resolve(c.Cluster.IndexURL)
	}
	var errs []error
	recovered := false
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return c.failCollection(ctx, err)
		}

		page, err := c.collectKey(ctx, key)
		if err != nil {
			collection.Missing = append(collection.Missing, key)
			if errors.Is(err, catalogue.ErrNotFound) {
				slog.WarnContext(ctx, "no data", "cluster", c.Cluster.Name, "key", key, "err", err)
				continue
			}
			errs = append(errs, err)
			continue
		}
		collection.Data[key] = page.Records
		if page.recovered() {
			recovered = true
		}
		if page.Fallback {
			collection.Missing = append(collection.Missing, key)
		}
		if collection.Source == "" {
			collection.Source = page.Source
		}
		if page.LastUpdated.After(collection.LastUpdated) {
			collection.LastUpdated = page.LastUpdated
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "some keys failed")
		if c.Options.Strict {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to collect some keys", "cluster", c.Cluster.Name, "missing", collection.Missing, "err", err)
		if len(collection.Data) == 0 {
			return nil, nil
		}
		return &collection, nil
	}

	if recovered {
		slog.WarnContext(ctx, "collection incomplete, not caching it", "cluster", c.Cluster.Name, "missing", collection.Missing)
		return &collection, nil
	}
	err = c.Store.Save(ctx, aggregate, collection)
	if err != nil {
		slog.WarnContext(ctx, "failed to cache collection", "key", aggregate.Path(), "err", err)
	}
	return &collection, nil
}

func (c *Collector[T]) failCollection(ctx context.Context, err error) (*Collection[T], error) {
	return nil, c.translate(ctx, err)
}

// runs Collect for its side effect of filling the cache.
func (c *Collector[T]) Run(ctx context.Context) error {
	_, err := c.Collect(ctx)
	return err
}

// runs CollectKey for each of `keys` in order.
func (c *Collector[T]) RunKeys(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		_, err := c.CollectKey(ctx, key)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
