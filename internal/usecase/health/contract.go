package health

import (
	"context"

	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DatasetProber checks that registered datasets can be loaded.
type DatasetProber interface {
	Datasets() []domds.Dataset
	Probe(ctx context.Context, name string) error
}
