package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
)

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// 0 の項目は pgxpool の既定値のままです。MaxIdleConns は常時確保する最小接続数として扱います。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	setConns(&poolCfg.MaxConns, cfg.MaxOpenConns)
	setConns(&poolCfg.MinConns, cfg.MaxIdleConns)
	setDuration(&poolCfg.MaxConnLifetime, cfg.ConnMaxLifetime)
	setDuration(&poolCfg.MaxConnIdleTime, cfg.ConnMaxIdleTime)
	setDuration(&poolCfg.HealthCheckPeriod, cfg.HealthCheckPeriod)
	setDuration(&poolCfg.ConnConfig.ConnectTimeout, cfg.ConnectTimeout)

	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	return poolCfg, nil
}

func setConns(dst *int32, n int) {
	if n > 0 {
		*dst = int32(n)
	}
}

func setDuration(dst *time.Duration, d time.Duration) {
	if d > 0 {
		*dst = d
	}
}

// NewPool は pgxpool.Pool を生成し、ConnectTimeout を上限に疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool %s@%s: %w", cfg.User, cfg.Host, err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	return pool, nil
}
