// Package cache persists collected artifacts under deterministic keys so a
// collection that already ran does not touch the network again.
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"railcodes/lib/telemetry"
	"railcodes/lib/textutil"
)

var tracer = telemetry.Tracer("railcodes.lib.cache")

var ErrNotFound = errors.New("cache entry not found")

type Format int

const (
	FormatGob Format = iota
	FormatJSON
)

func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".gob"
}

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "gob"
}

// addresses one artifact, "line-data/crs-nlc-tiploc-and-stanox/a".
type Key struct {
	Category string
	Cluster  string
	Name     string
	Format   Format
}

// the key without its extension, every component in its file-safe form.
func (k Key) String() string {
	parts := []string{textutil.CacheName(k.Category)}
	if k.Cluster != "" {
		parts = append(parts, textutil.CacheName(k.Cluster))
	}
	parts = append(parts, textutil.CacheName(k.Name))
	return path.Join(parts...)
}

func (k Key) Path() string {
	return k.String() + k.Format.Ext()
}

type Store interface {
	Load(ctx context.Context, key Key, out any) error
	Save(ctx context.Context, key Key, v any) error
	Exists(ctx context.Context, key Key) bool
}

func encode(format Format, v any) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(v, "", "  ")
	}
	buff := bytes.NewBuffer(nil)
	err := gob.NewEncoder(buff).Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func decode(format Format, data []byte, out any) error {
	if format == FormatJSON {
		return json.Unmarshal(data, out)
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(out)
}

func notFound(key Key) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key.Path())
}
