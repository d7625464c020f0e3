package db

import (
    "context"
    "errors"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens the pool backing the created-tag store. The bridge only does
// occasional single-row inserts, so sizing stays minimal.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
    if databaseURL == "" {
        return nil, errors.New("DATABASE_URL is not set")
    }
    cfg, err := pgxpool.ParseConfig(databaseURL)
    if err != nil {
        return nil, err
    }
    cfg.MaxConns = 2
    cfg.MinConns = 0
    cfg.MaxConnIdleTime = 5 * time.Minute
    cfg.HealthCheckPeriod = 30 * time.Second
    cfg.ConnConfig.RuntimeParams["application_name"] = "shippingbridge-api"
    cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
    // a stuck insert should fail fast rather than hold the webhook open
    cfg.ConnConfig.RuntimeParams["statement_timeout"] = "5000" // 5s

    return pgxpool.NewWithConfig(ctx, cfg)
}
