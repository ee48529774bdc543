package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"sighting-intake-service/internal/config"
	"sighting-intake-service/internal/platform/db"
	"sighting-intake-service/internal/ports"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// Open builds the repository for cfg.Driver, initializing the data file or
// schema as needed. The returned closer releases every resource Open acquired.
func Open(ctx context.Context, cfg config.StoreConfig) (ports.SightingRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		if err := EnsureFile(cfg.FilePath); err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return NewFileSightingRepository(cfg.FilePath), noopCloser, nil

	case config.DriverSQLite:
		if err := EnsureDir(cfg.SQLitePath); err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		if err := InitSchema(ctx, sqlDB, SQLite); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return NewSQLSightingRepository(sqlDB, SQLite), sqlDB, nil

	case config.DriverPostgres:
		sqlDB, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		if err := InitSchema(ctx, sqlDB, Postgres); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return NewSQLSightingRepository(sqlDB, Postgres), sqlDB, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open store: ping redis %q: %w", cfg.RedisAddr, err)
		}
		return NewRedisSightingRepository(client, cfg.RedisKey), client, nil

	case config.DriverBadger:
		bdb, err := OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		repo, err := NewBadgerSightingRepository(bdb)
		if err != nil {
			bdb.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		closer := closerFunc(func() error {
			return errors.Join(repo.Close(), bdb.Close())
		})
		return repo, closer, nil
	}

	return nil, nil, fmt.Errorf("open store: unknown driver %q", cfg.Driver)
}
