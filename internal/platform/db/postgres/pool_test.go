package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:              "localhost",
		Port:              15432,
		User:              "user",
		Password:          "pass",
		Name:              "db",
		SSLMode:           "disable",
		MaxOpenConns:      20,
		MaxIdleConns:      5,
		ConnMaxLifetime:   30 * time.Minute,
		ConnMaxIdleTime:   10 * time.Minute,
		ApplicationName:   "staffing-test",
		ConnectTimeout:    3 * time.Second,
		HealthCheckPeriod: 45 * time.Second,
	}

	poolCfg, err := BuildPoolConfig(dbCfg)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Errorf("unexpected ConnectTimeout: %v", poolCfg.ConnConfig.ConnectTimeout)
	}

	if poolCfg.HealthCheckPeriod != 45*time.Second {
		t.Errorf("unexpected HealthCheckPeriod: %v", poolCfg.HealthCheckPeriod)
	}

	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}

	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "staffing-test" {
		t.Errorf("expected application_name staffing-test, got %q", got)
	}
}

func TestBuildPoolConfig_EscapesCredentials(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "staffing",
		Password: "p@ss:w/rd",
		Name:     "staffing",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.ConnConfig.Password != "p@ss:w/rd" {
		t.Errorf("password was not preserved, got %q", poolCfg.ConnConfig.Password)
	}
	if poolCfg.ConnConfig.Host != "db.internal" {
		t.Errorf("unexpected host %q", poolCfg.ConnConfig.Host)
	}
}

func TestBuildPoolConfig_ZeroKeepsDefaults(t *testing.T) {
	t.Parallel()

	defaults, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/db")
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "u",
		Password: "p",
		Name:     "db",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != defaults.MaxConns || poolCfg.HealthCheckPeriod != defaults.HealthCheckPeriod {
		t.Errorf("zero settings must keep pgxpool defaults, got MaxConns=%d HealthCheckPeriod=%v", poolCfg.MaxConns, poolCfg.HealthCheckPeriod)
	}
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; ok {
		t.Errorf("application_name must not be set when empty")
	}
}
