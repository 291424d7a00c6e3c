package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// store is the consumer interface for Redis-backed datasets (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONSet(ctx context.Context, key, path string, data []byte) error
}

// Format is how a dataset is stored at its key.
type Format string

const (
	// FormatString stores the JSON array as a plain string value.
	FormatString Format = "string"
	// FormatJSON stores the array as a RedisJSON document.
	FormatJSON Format = "json"
)

// RedisRepo reads and writes a dataset stored at a single Redis key.
type RedisRepo struct {
	store  store
	key    string
	format Format
	schema *Schema
}

// NewRedisRepo creates a repository for the dataset at prefix+key.
func NewRedisRepo(s store, prefix, key string, format Format, schema *Schema) *RedisRepo {
	if format == "" {
		format = FormatString
	}
	return &RedisRepo{store: s, key: prefix + key, format: format, schema: schema}
}

// Key returns the full Redis key.
func (r *RedisRepo) Key() string { return r.key }

// Load fetches and decodes the dataset.
func (r *RedisRepo) Load(ctx context.Context) ([]domain.Record, error) {
	raw, err := r.read(ctx)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s: %w", domain.ErrDatasetUnavailable, r.key, err)
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrDatasetUnavailable, r.key, err)
	}
	records, err := Decode(raw, r.schema)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return records, nil
}

// Save validates data as a dataset and stores it.
func (r *RedisRepo) Save(ctx context.Context, data []byte) (int, error) {
	records, err := Decode(data, r.schema)
	if err != nil {
		return 0, err
	}
	if r.format == FormatJSON {
		if err := r.store.JSONSet(ctx, r.key, "$", data); err != nil {
			return 0, fmt.Errorf("json.set %s: %w", r.key, err)
		}
		return len(records), nil
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return 0, fmt.Errorf("set %s: %w", r.key, err)
	}
	return len(records), nil
}

// Collection exposes the repository as a deferred collection.
func (r *RedisRepo) Collection() source.Collection[domain.Record] {
	return source.Deferred(r.Load)
}

func (r *RedisRepo) read(ctx context.Context) ([]byte, error) {
	if r.format != FormatJSON {
		return r.store.Get(ctx, r.key)
	}

	// JSON.GET with a JSONPath wraps the result in an outer array.
	raw, err := r.store.JSONGet(ctx, r.key, "$")
	if err != nil {
		return nil, err
	}
	var wrapped []json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDataset, err)
	}
	if len(wrapped) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return wrapped[0], nil
}
