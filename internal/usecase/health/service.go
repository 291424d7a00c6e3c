package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const maxConcurrentChecks = 8

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	datasets DatasetProber
}

// New creates a Service. db can be nil when no dataset lives in Redis.
func New(db DBPinger, datasets DatasetProber) *Service {
	return &Service{db: db, datasets: datasets}
}

// Check runs health checks against all components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult)
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentChecks)

	if s.db != nil {
		g.Go(func() error {
			record("database", s.db.Ping(ctx))
			return nil
		})
	}
	if s.datasets != nil {
		for _, ds := range s.datasets.Datasets() {
			name := ds.Name()
			g.Go(func() error {
				record("dataset:"+name, s.datasets.Probe(ctx, name))
				return nil
			})
		}
	}
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

func aggregate(checks map[string]CheckResult) Status {
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
