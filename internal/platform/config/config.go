package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Escalation EscalationConfig `yaml:"escalation"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	// LockTimeout は行ロック待ちの上限です。0 の場合は PostgreSQL の設定に従います。
	LockTimeout        time.Duration `yaml:"-"`
	LockTimeoutRaw     string        `yaml:"lock_timeout"`
	// ApplicationName は pg_stat_activity に表示される接続名です。
	ApplicationName string `yaml:"application_name"`
	// ConnectTimeout は新規接続の確立を待つ上限です。
	ConnectTimeout       time.Duration `yaml:"-"`
	ConnectTimeoutRaw    string        `yaml:"connect_timeout"`
	HealthCheckPeriod    time.Duration `yaml:"-"`
	HealthCheckPeriodRaw string        `yaml:"health_check_period"`
}

// RedisConfig は通知イベント配信に関する設定です。URL が空の場合は配信しません。
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// WorkflowConfig は組み込みワークフローエンジンの設定です。
type WorkflowConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SQLitePath string `yaml:"sqlite_path"`
	ProcessKey string `yaml:"process_key"`
	TaskName   string `yaml:"task_name"`
}

// EscalationConfig は外部採用エスカレーションの設定です。
type EscalationConfig struct {
	ResourcePlannerID string        `yaml:"resource_planner_id"`
	Approvers         []string      `yaml:"approvers"`
	SearchTimeout     time.Duration `yaml:"-"`
	SearchDelay       time.Duration `yaml:"-"`
	SearchTimeoutRaw  string        `yaml:"search_timeout"`
	SearchDelayRaw    string        `yaml:"search_delay"`
}

// SchedulerConfig は定期実行ジョブの設定です。GapSweepSpec が空の場合は実行しません。
type SchedulerConfig struct {
	GapSweepSpec string `yaml:"gap_sweep_spec"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Workflow.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Escalation.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	c.Redis.URL = strings.TrimSpace(c.Redis.URL)
	c.Scheduler.GapSweepSpec = strings.TrimSpace(c.Scheduler.GapSweepSpec)

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	lockTimeout, err := parseDurationAllowEmpty(d.LockTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: database.lock_timeout: %w", err)
	}
	d.LockTimeout = lockTimeout

	connectTimeout, err := parseDurationAllowEmpty(d.ConnectTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: database.connect_timeout: %w", err)
	}
	d.ConnectTimeout = connectTimeout

	healthCheck, err := parseDurationAllowEmpty(d.HealthCheckPeriodRaw)
	if err != nil {
		return fmt.Errorf("config: database.health_check_period: %w", err)
	}
	d.HealthCheckPeriod = healthCheck

	if d.MaxOpenConns > 0 && d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("config: database.max_idle_conns (%d) exceeds max_open_conns (%d)", d.MaxIdleConns, d.MaxOpenConns)
	}

	if d.ApplicationName == "" {
		d.ApplicationName = "staffing-workflow"
	}

	return nil
}

func (w *WorkflowConfig) validateAndNormalize() error {
	if !w.Enabled {
		return nil
	}
	if w.SQLitePath == "" {
		return fmt.Errorf("config: workflow.sqlite_path must be set when workflow is enabled")
	}
	return nil
}

func (e *EscalationConfig) validateAndNormalize() error {
	timeout, err := parseDurationAllowEmpty(e.SearchTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: escalation.search_timeout: %w", err)
	}
	e.SearchTimeout = timeout

	delay, err := parseDurationAllowEmpty(e.SearchDelayRaw)
	if err != nil {
		return fmt.Errorf("config: escalation.search_delay: %w", err)
	}
	e.SearchDelay = delay

	approvers := e.Approvers[:0]
	for _, a := range e.Approvers {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			approvers = append(approvers, trimmed)
		}
	}
	e.Approvers = approvers
	e.ResourcePlannerID = strings.TrimSpace(e.ResourcePlannerID)
	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", l.Level)
	}

	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Format == "" {
		l.Format = "text"
	}
	if l.Format != "text" && l.Format != "json" {
		return fmt.Errorf("config: log.format %q is not supported", l.Format)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
