package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/pkg/logger"
)

// NewPostgresPool opens the shared pgx pool and verifies the database is
// reachable before handing it to the repositories.
func NewPostgresPool(cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("connected to postgres")
	return pool, nil
}
