package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"railcodes/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// keeps every artifact as a row of one table, for a local sqlite file or a
// remote libsql database.
type SQLStore struct {
	db *sql.DB
}

// `driver` is "sqlite" for a local file (or ":memory:") and "libsql" for a
// remote database.
func OpenSQL(ctx context.Context, driver, dsn string) (SQLStore, error) {
	switch driver {
	case "sqlite", "libsql":
	default:
		return SQLStore{}, fmt.Errorf("unsupported cache driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return SQLStore{}, err
	}
	store, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return SQLStore{}, err
	}
	return store, nil
}

// creates the artifacts table in `db` if it is not there yet.
func NewSQLStore(ctx context.Context, db *sql.DB) (SQLStore, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return SQLStore{}, err
	}
	return SQLStore{db: db}, nil
}

func (s SQLStore) Close() error {
	return s.db.Close()
}

func (s SQLStore) Load(ctx context.Context, key Key, out any) error {
	ctx, span := tracer.Start(ctx, "sql:Load")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	var format string
	var data []byte
	err := s.db.QueryRowContext(
		ctx,
		"select format, data from artifacts where key = ?",
		key.String(),
	).Scan(&format, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(key)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query artifact")
		return err
	}
	if format != key.Format.String() {
		err = fmt.Errorf("artifact %s stored as %s, not %s", key.String(), format, key.Format.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, "format mismatch")
		return err
	}

	err = decode(key.Format, data, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode artifact")
		return err
	}
	span.SetStatus(codes.Ok, "CACHE HIT")
	return nil
}

func (s SQLStore) Save(ctx context.Context, key Key, v any) error {
	ctx, span := tracer.Start(ctx, "sql:Save")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	data, err := encode(key.Format, v)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode artifact")
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`insert into artifacts(key, format, data, saved_at) values (?, ?, ?, ?)
		on conflict(key) do update set format = excluded.format, data = excluded.data, saved_at = excluded.saved_at`,
		key.String(), key.Format.String(), data, timezone.Now().Unix(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save artifact")
		return err
	}
	return nil
}

func (s SQLStore) Exists(ctx context.Context, key Key) bool {
	var n int
	err := s.db.QueryRowContext(ctx, "select count(*) from artifacts where key = ?", key.String()).Scan(&n)
	return err == nil && n > 0
}
