package query

import (
	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// Loader provides the records of one dataset. The returned collection is
// resolved on every query.
type Loader interface {
	Collection() source.Collection[domain.Record]
}
