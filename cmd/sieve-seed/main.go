// sieve-seed loads JSON dataset files into the Redis keys that the sieve
// server reads Redis-backed datasets from.
//
// Usage:
//
//	ENV=prod sieve-seed -dataset heroes -file heroes.json
//	ENV=prod sieve-seed -all -dir ./seed
//
// With -all every Redis-backed dataset is seeded from <dir>/<name>.json.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sieve/internal/config"
	dbRedis "github.com/kailas-cloud/sieve/internal/db/redis"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	dsrepo "github.com/kailas-cloud/sieve/internal/repository/dataset"
)

type options struct {
	dataset string
	file    string
	all     bool
	dir     string
	workers int
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.dataset, "dataset", "", "dataset name to seed")
	flag.StringVar(&opts.file, "file", "", "JSON array file for -dataset")
	flag.BoolVar(&opts.all, "all", false, "seed every Redis-backed dataset from -dir")
	flag.StringVar(&opts.dir, "dir", ".", "directory holding <dataset>.json files for -all")
	flag.IntVar(&opts.workers, "workers", 4, "datasets seeded in parallel")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, "sieve-seed", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) error {
	jobs, err := plan(cfg, opts)
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for _, j := range jobs {
		g.Go(func() error {
			return seed(gctx, store, cfg.Storage.KeyPrefix, j, logger)
		})
	}
	return g.Wait() //nolint:wrapcheck // seed errors carry the dataset name
}

type job struct {
	dataset config.DatasetConfig
	file    string
}

// plan resolves which datasets to seed from which files.
func plan(cfg config.Config, opts options) ([]job, error) {
	var jobs []job
	for _, dc := range cfg.Datasets {
		if dc.RedisKey == "" {
			continue
		}
		switch {
		case opts.all:
			jobs = append(jobs, job{dataset: dc, file: filepath.Join(opts.dir, dc.Name+".json")})
		case dc.Name == opts.dataset:
			if opts.file == "" {
				return nil, fmt.Errorf("-file is required with -dataset")
			}
			jobs = append(jobs, job{dataset: dc, file: opts.file})
		}
	}
	if len(jobs) == 0 {
		if opts.all {
			return nil, fmt.Errorf("no Redis-backed datasets configured")
		}
		return nil, fmt.Errorf("dataset %q is not a configured Redis-backed dataset", opts.dataset)
	}
	return jobs, nil
}

func seed(ctx context.Context, store *dbRedis.Store, prefix string, j job, logger *zap.Logger) error {
	var schema *dsrepo.Schema
	if j.dataset.Schema != "" {
		s, err := dsrepo.LoadSchema(j.dataset.Schema)
		if err != nil {
			return fmt.Errorf("%s: schema: %w", j.dataset.Name, err)
		}
		schema = s
	}

	data, err := os.ReadFile(j.file)
	if err != nil {
		return fmt.Errorf("%s: read %s: %w", j.dataset.Name, j.file, err)
	}

	repo := dsrepo.NewRedisRepo(store, prefix, j.dataset.RedisKey, dsrepo.Format(j.dataset.RedisFormat), schema)
	start := time.Now()
	n, err := repo.Save(ctx, data)
	if err != nil {
		return fmt.Errorf("%s: %w", j.dataset.Name, err)
	}

	logger.Info("Dataset seeded",
		logpkg.Dataset(j.dataset.Name),
		zap.String("key", repo.Key()),
		zap.String("file", j.file),
		zap.Int("records", n),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
