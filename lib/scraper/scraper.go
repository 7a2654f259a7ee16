// Package scraper sequences the collection of one cluster of the source
// site: resolve its index page, fetch one page per key, parse it into
// records and cache the result.
//
// every page goes through the same three steps:
// 1) key -> url, through the cluster's catalogue.
// 2) url -> document, through the fetcher or the cache.
// 3) document -> records, through the cluster's parse function.
//
// collectors are independent of each other, each owns its own catalogue
// and options. nothing here is shared between collectors.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"railcodes/lib/catalogue"
	"railcodes/lib/table"
	"railcodes/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
)

var tracer = telemetry.Tracer("railcodes.lib.scraper")

var ErrCancelled = errors.New("collection cancelled")

// a page was fetched but its markup could not be turned into records.
type ParseError struct {
	Cluster string
	Key     string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Cluster, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// one parsed output row.
type Record interface {
	Row() []string
}

// the records parsed off one page.
type Page[T any] struct {
	Key         string
	Source      string
	LastUpdated time.Time
	Records     []T
	// set when the source site could not be reached and the page came from
	// an older cache entry (Stale) or the cluster's fallback (Fallback).
	Stale    bool
	Fallback bool
}

func (p Page[T]) recovered() bool {
	return p.Stale || p.Fallback
}

// the records of every key of a cluster.
type Collection[T any] struct {
	Cluster     string
	Source      string
	LastUpdated time.Time
	Keys        []string
	Data        map[string][]T
	// keys without fresh data: absent from the catalogue, failed, or filled
	// with the cluster's fallback record
	Missing []string
}

// the records of every key in key order.
func (c Collection[T]) All() []T {
	var out []T
	for _, key := range c.Keys {
		out = append(out, c.Data[key]...)
	}
	return out
}

// describes where a cluster lives on the source site and how its pages are
// read.
type Cluster[T Record] struct {
	Category string
	Name     string
	Columns  []string
	// the page listing the cluster's keys
	IndexURL string
	Keys     func(cat catalogue.Catalogue) []string
	URL      func(cat catalogue.Catalogue, key string) (string, error)
	Parse    func(ctx context.Context, doc *goquery.Document, key string) ([]T, error)
	// the record returned for a key whose page could not be reached, nil
	// when the cluster has none.
	Fallback func(key string) []T
}

// a Fallback giving a page with no records, so an unreachable key still
// shows up in its collection.
func NoRecords[T any](key string) []T {
	return nil
}

// renders records as a table with the cluster's columns.
func (c Cluster[T]) Table(records []T) *table.Table {
	t := table.New(c.Columns)
	for _, r := range records {
		t.Append(r.Row()...)
	}
	return t
}

type Options struct {
	// refetch pages even when a cached copy exists
	Update bool
	// ask Confirm before any network access
	ConfirmationRequired bool
	Confirm              func(prompt string) bool
	// return errors instead of logging them
	Strict  bool
	Verbose bool
}
