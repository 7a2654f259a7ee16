package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// keeps each artifact in its own file under Root.
type FileStore struct {
	Root string
}

func NewFileStore(root string) FileStore {
	return FileStore{Root: root}
}

func (s FileStore) path(key Key) string {
	return filepath.Join(s.Root, filepath.FromSlash(key.Path()))
}

func (s FileStore) Load(ctx context.Context, key Key, out any) error {
	ctx, span := tracer.Start(ctx, "file:Load")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.Path()))

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(key)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache file")
		return err
	}

	err = decode(key.Format, data, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cache file")
		return err
	}
	span.SetStatus(codes.Ok, "CACHE HIT")
	return nil
}

func (s FileStore) Save(ctx context.Context, key Key, v any) error {
	ctx, span := tracer.Start(ctx, "file:Save")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.Path()))

	data, err := encode(key.Format, v)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode artifact")
		return err
	}

	target := s.path(key)
	err = os.MkdirAll(filepath.Dir(target), 0777)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache directory")
		return err
	}
	// written to a sibling first so a crash never leaves a truncated artifact
	tmp := target + ".tmp"
	err = os.WriteFile(tmp, data, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache file")
		return err
	}
	return os.Rename(tmp, target)
}

func (s FileStore) Exists(ctx context.Context, key Key) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}
