package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/config"
)

// Backends groups the media selected by configuration.
type Backends struct {
	Collections Backend
	Sessions    Backend

	closers []func() error
}

// Close releases every opened backend.
func (b *Backends) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}

// Open builds the collection and session backends named by cfg. Redis is
// connected once and shared when both drivers select it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	out := &Backends{}
	var sharedRedis *Redis
	redisHandle := func() *Redis {
		if sharedRedis == nil {
			sharedRedis = NewRedis(cfg.Redis, logger)
			out.closers = append(out.closers, sharedRedis.Close)
		}
		return sharedRedis
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		out.Collections = NewMemory()
	case config.DriverFile:
		file, err := NewFile(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, file.Close)
		out.Collections = file
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, db.Close)
		out.Collections = db
	case config.DriverPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		out.closers = append(out.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := pg.Migrate(ctx, logger); err != nil {
				_ = out.Close()
				return nil, err
			}
		}
		out.Collections = pg
	case config.DriverRedis:
		out.Collections = redisHandle()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	switch cfg.Session.Driver {
	case config.DriverMemory:
		out.Sessions = NewMemory()
	case config.DriverRedis:
		out.Sessions = redisHandle()
	case config.DriverStore:
		out.Sessions = out.Collections
	default:
		_ = out.Close()
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	logger.Info("storage ready",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("session_driver", cfg.Session.Driver))
	return out, nil
}
