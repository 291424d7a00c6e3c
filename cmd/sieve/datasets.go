package main

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/sieve/internal/config"
	"github.com/kailas-cloud/sieve/internal/db"
	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
	dsrepo "github.com/kailas-cloud/sieve/internal/repository/dataset"
	queryuc "github.com/kailas-cloud/sieve/internal/usecase/query"
)

// buildDataset turns one dataset config entry into a domain dataset and the
// loader backing it. store is nil when no dataset lives in Redis.
func buildDataset(
	dc config.DatasetConfig, store db.Store, keyPrefix string,
) (domds.Dataset, queryuc.Loader, error) {
	opts := []domds.Option{
		domds.WithSearchFields(dc.SearchFields...),
		domds.WithDelay(time.Duration(dc.DelayMs) * time.Millisecond),
	}
	if dc.IgnoreCase {
		opts = append(opts, domds.WithCaseInsensitiveSearch())
	}
	if dc.Schema != "" {
		opts = append(opts, domds.WithSchema(dc.Schema))
	}
	if dc.Scope != nil {
		scope, err := dc.Scope.Filter()
		if err != nil {
			return domds.Dataset{}, nil, fmt.Errorf("scope: %w", err)
		}
		opts = append(opts, domds.WithScope(scope))
	}

	kind, location := domds.KindFile, dc.File
	if dc.RedisKey != "" {
		kind, location = domds.KindRedis, dc.RedisKey
	}
	ds, err := domds.New(dc.Name, kind, location, opts...)
	if err != nil {
		return domds.Dataset{}, nil, err //nolint:wrapcheck // domain validation message is self-describing
	}

	var schema *dsrepo.Schema
	if ds.Schema() != "" {
		schema, err = dsrepo.LoadSchema(ds.Schema())
		if err != nil {
			return domds.Dataset{}, nil, fmt.Errorf("schema: %w", err)
		}
	}

	switch ds.Kind() {
	case domds.KindRedis:
		if store == nil {
			return domds.Dataset{}, nil, fmt.Errorf("redis dataset without a database connection")
		}
		return ds, dsrepo.NewRedisRepo(store, keyPrefix, location, dsrepo.Format(dc.RedisFormat), schema), nil
	default:
		return ds, dsrepo.NewFileLoader(location, schema), nil
	}
}
