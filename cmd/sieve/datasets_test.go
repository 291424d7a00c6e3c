package main

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/sieve/internal/config"
	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
	"github.com/kailas-cloud/sieve/pkg/filter"
)

func TestBuildDataset_File(t *testing.T) {
	dc := config.DatasetConfig{
		Name:         "active-heroes",
		File:         "../../testdata/heroes.json",
		Schema:       "../../testdata/heroes.schema.json",
		DelayMs:      5,
		SearchFields: []string{"alias"},
		IgnoreCase:   true,
		Scope:        &filter.Spec{Op: "isNotNull", Subject: "alias"},
	}

	ds, loader, err := buildDataset(dc, nil, "sieve:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Kind() != domds.KindFile || ds.Delay().Milliseconds() != 5 || !ds.SearchIgnoresCase() {
		t.Errorf("dataset = %+v", ds)
	}
	if _, ok := ds.Scope().(filter.Unary); !ok {
		t.Errorf("scope = %#v", ds.Scope())
	}

	records, err := loader.Collection().Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(records) != 6 {
		t.Errorf("expected 6 records, got %d", len(records))
	}
}

func TestBuildDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dc      config.DatasetConfig
		wantErr string
	}{
		{
			name:    "redis without store",
			dc:      config.DatasetConfig{Name: "heroes", RedisKey: "datasets:heroes"},
			wantErr: "without a database connection",
		},
		{
			name:    "bad scope",
			dc:      config.DatasetConfig{Name: "heroes", File: "x.json", Scope: &filter.Spec{Op: "between"}},
			wantErr: "scope",
		},
		{
			name:    "missing schema",
			dc:      config.DatasetConfig{Name: "heroes", File: "x.json", Schema: "missing.schema.json"},
			wantErr: "schema",
		},
		{
			name:    "bad name",
			dc:      config.DatasetConfig{Name: "bad name", File: "x.json"},
			wantErr: "alphanumeric",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildDataset(tt.dc, nil, "")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
