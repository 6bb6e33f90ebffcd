package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/staffing-workflow/internal/adapters/workflow/sqlite"
	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
)

const usage = `usage: migrate [flags] <action> [arg]

actions:
  up [N]      apply all (or N) pending migrations
  down [N]    roll back all (or N) migrations
  drop        drop every table in the database
  version     print the current schema version
  force V     mark version V as applied without running it (clears the dirty flag)
  workflow    create the embedded workflow engine schema when workflow.enabled is set
`

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if action == "workflow" {
		if err := initWorkflowStore(cfg.Workflow); err != nil {
			log.Fatalf("workflow schema failed: %v", err)
		}
		log.Printf("workflow schema ready at %s", cfg.Workflow.SQLitePath)
		return
	}

	if err := runMigration(action, flag.Arg(1), *migrationsDir, cfg.Database.DSN()); err != nil {
		log.Fatalf("migration %s failed: %v", action, err)
	}

	log.Printf("migration %s completed", action)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(action, arg, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up", "down":
		n, err := optionalSteps(arg)
		if err != nil {
			return err
		}
		switch {
		case n > 0 && action == "up":
			err = m.Steps(n)
		case n > 0:
			err = m.Steps(-n)
		case action == "up":
			err = m.Up()
		default:
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force requires a version: %w", err)
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Printf("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

func optionalSteps(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", arg)
	}
	return n, nil
}

// initWorkflowStore は組み込みエンジンを一度開いてスキーマを作成します。
func initWorkflowStore(cfg config.WorkflowConfig) error {
	if !cfg.Enabled {
		return fmt.Errorf("workflow.enabled is false")
	}
	engine, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	return engine.Close()
}
