package dataset

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/kailas-cloud/sieve/pkg/filter"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Kind distinguishes where a dataset's records are stored.
type Kind string

const (
	// KindFile reads a JSON array from a local file.
	KindFile Kind = "file"
	// KindRedis reads a JSON array stored at a Redis key.
	KindRedis Kind = "redis"
)

// IsValid checks if the dataset kind is supported.
func (k Kind) IsValid() bool {
	return k == KindFile || k == KindRedis
}

// Dataset is a named, queryable set of records (immutable value object).
type Dataset struct {
	name         string
	kind         Kind
	location     string
	schema       string
	searchFields []string
	ignoreCase   bool
	scope        filter.Filter
	delay        time.Duration
}

// Option customises a Dataset.
type Option func(*Dataset)

// WithSchema validates every record against the JSON schema file at path.
func WithSchema(path string) Option {
	return func(d *Dataset) { d.schema = path }
}

// WithSearchFields limits search to the named fields.
func WithSearchFields(names ...string) Option {
	return func(d *Dataset) { d.searchFields = slices.Clone(names) }
}

// WithCaseInsensitiveSearch makes search terms match regardless of case.
func WithCaseInsensitiveSearch() Option {
	return func(d *Dataset) { d.ignoreCase = true }
}

// WithScope restricts every query to records matching f.
func WithScope(f filter.Filter) Option {
	return func(d *Dataset) { d.scope = filter.Clone(f) }
}

// WithDelay adds latency to every query.
func WithDelay(delay time.Duration) Option {
	return func(d *Dataset) { d.delay = delay }
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("dataset name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("dataset name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Dataset.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Location: file path or Redis key, required.
func New(name string, kind Kind, location string, opts ...Option) (Dataset, error) {
	if !kind.IsValid() {
		return Dataset{}, fmt.Errorf("invalid dataset kind: %q", kind)
	}
	if err := validateName(name); err != nil {
		return Dataset{}, err
	}
	if location == "" {
		return Dataset{}, fmt.Errorf("dataset %s: location is required", name)
	}

	d := Dataset{name: name, kind: kind, location: location}
	for _, o := range opts {
		o(&d)
	}
	if d.delay < 0 {
		return Dataset{}, fmt.Errorf("dataset %s: delay must not be negative", name)
	}
	return d, nil
}

// Name returns the dataset name.
func (d Dataset) Name() string { return d.name }

// Kind returns where the records are stored.
func (d Dataset) Kind() Kind { return d.kind }

// Location returns the file path or Redis key.
func (d Dataset) Location() string { return d.location }

// Schema returns the JSON schema path, or "".
func (d Dataset) Schema() string { return d.schema }

// SearchFields returns the searchable field names. Empty means all fields.
func (d Dataset) SearchFields() []string { return slices.Clone(d.searchFields) }

// SearchIgnoresCase reports whether search is case-insensitive.
func (d Dataset) SearchIgnoresCase() bool { return d.ignoreCase }

// Scope returns the filter applied to every query, or nil.
func (d Dataset) Scope() filter.Filter { return d.scope }

// Delay returns the latency added to every query.
func (d Dataset) Delay() time.Duration { return d.delay }
