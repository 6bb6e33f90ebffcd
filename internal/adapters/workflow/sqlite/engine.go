// Package sqlite は SQLite に状態を保存する組み込みのワークフローエンジンです。
// 各プロセスは承認タスクを 1 件だけ持ち、タスクの完了でプロセスも完了します。
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	_ "modernc.org/sqlite"
)

const (
	StatusActive    = "ACTIVE"
	StatusOpen      = "OPEN"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"

	defaultTaskName = "approve"
)

var (
	// ErrTaskNotFound はタスクが存在しない場合に返却されます。
	ErrTaskNotFound = escalation.ErrTaskNotFound
	// ErrTaskCompleted は完了済みのタスクやプロセスを操作しようとした場合に返却されます。
	ErrTaskCompleted = escalation.ErrTaskCompleted
	// ErrInvalidProcessKey はプロセスキーが空の場合に返却されます。
	ErrInvalidProcessKey = errors.New("workflow: process key is required")
)

// Task はエンジン上のユーザータスクです。
type Task = escalation.ApprovalTask

// Engine は SQLite を利用したワークフローエンジンです。
type Engine struct {
	db        *sqlx.DB
	taskNames map[string]string
	now       func() time.Time
}

// Option は Engine の設定を変更します。
type Option func(*Engine)

// WithTaskName は processKey のプロセスが生成するタスク名を指定します。
func WithTaskName(processKey, taskName string) Option {
	return func(e *Engine) {
		e.taskNames[processKey] = taskName
	}
}

// Open は path のデータベースを開き、未適用のスキーマを適用します。
func Open(path string, opts ...Option) (*Engine, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("workflow: create data dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("workflow: open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("workflow: enable foreign keys: %w", err)
	}

	e := &Engine{
		db:        db,
		taskNames: make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return e, nil
}

// Close はデータベース接続を閉じます。
func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) migrate() error {
	current := 0

	var tableCount int
	if err := e.db.Get(&tableCount, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'"); err != nil {
		return fmt.Errorf("workflow: check schema_version: %w", err)
	}
	if tableCount > 0 {
		if err := e.db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("workflow: read schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := e.db.Exec(m.sql); err != nil {
			return fmt.Errorf("workflow: apply migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// StartProcess はプロセスを開始し、最初のタスクを作成します。戻り値はプロセス ID です。
func (e *Engine) StartProcess(ctx context.Context, key string, vars map[string]string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidProcessKey
	}

	payload, err := encodeVariables(vars)
	if err != nil {
		return "", err
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := e.now()
	processID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO process_instances (id, process_key, status, variables, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		processID, key, StatusActive, payload, now,
	); err != nil {
		return "", fmt.Errorf("workflow: insert process: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, process_instance_id, name, status, variables, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), processID, e.taskName(key), StatusOpen, "{}", now,
	); err != nil {
		return "", fmt.Errorf("workflow: insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("workflow: commit: %w", err)
	}
	return processID, nil
}

// CompleteTask はタスクを完了し、変数をプロセスへ合流させてプロセスを完了します。
func (e *Engine) CompleteTask(ctx context.Context, taskID string, vars map[string]string) error {
	payload, err := encodeVariables(vars)
	if err != nil {
		return err
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		processID   string
		status      string
		processVars string
	)
	err = tx.QueryRowxContext(ctx, `
		SELECT t.process_instance_id, t.status, p.variables
		  FROM tasks t
		  JOIN process_instances p ON p.id = t.process_instance_id
		 WHERE t.id = ?`, taskID,
	).Scan(&processID, &status, &processVars)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return fmt.Errorf("workflow: load task %s: %w", taskID, err)
	}
	if status != StatusOpen {
		return fmt.Errorf("%w: %s is %s", ErrTaskCompleted, taskID, status)
	}

	merged, err := decodeVariables(processVars)
	if err != nil {
		return err
	}
	for k, v := range vars {
		merged[k] = v
	}
	mergedPayload, err := encodeVariables(merged)
	if err != nil {
		return err
	}

	now := e.now()
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET status = ?, variables = ?, completed_at = ? WHERE id = ?",
		StatusCompleted, payload, now, taskID,
	); err != nil {
		return fmt.Errorf("workflow: complete task %s: %w", taskID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE process_instances SET status = ?, variables = ?, completed_at = ? WHERE id = ?",
		StatusCompleted, mergedPayload, now, processID,
	); err != nil {
		return fmt.Errorf("workflow: complete process %s: %w", processID, err)
	}

	return tx.Commit()
}

// CancelProcess はプロセスと未完了のタスクを取り消します。取り消し済みのプロセスには何もしません。
func (e *Engine) CancelProcess(ctx context.Context, processID string) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, "SELECT status FROM process_instances WHERE id = ?", processID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("workflow: process %s not found", processID)
	}
	if err != nil {
		return fmt.Errorf("workflow: load process %s: %w", processID, err)
	}
	switch status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return fmt.Errorf("%w: process %s", ErrTaskCompleted, processID)
	}

	now := e.now()
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET status = ?, completed_at = ? WHERE process_instance_id = ? AND status = ?",
		StatusCancelled, now, processID, StatusOpen,
	); err != nil {
		return fmt.Errorf("workflow: cancel tasks of %s: %w", processID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE process_instances SET status = ?, completed_at = ? WHERE id = ?",
		StatusCancelled, now, processID,
	); err != nil {
		return fmt.Errorf("workflow: cancel process %s: %w", processID, err)
	}

	return tx.Commit()
}

// TaskProcessID はタスクが属するプロセスの ID を返します。
func (e *Engine) TaskProcessID(ctx context.Context, taskID string) (string, error) {
	var processID string
	err := e.db.GetContext(ctx, &processID, "SELECT process_instance_id FROM tasks WHERE id = ?", taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return "", fmt.Errorf("workflow: load task %s: %w", taskID, err)
	}
	return processID, nil
}

// OpenTaskID はプロセスの未完了タスクの ID を返します。
func (e *Engine) OpenTaskID(ctx context.Context, processID string) (string, error) {
	var id string
	err := e.db.GetContext(ctx, &id,
		"SELECT id FROM tasks WHERE process_instance_id = ? AND status = ? ORDER BY created_at LIMIT 1",
		processID, StatusOpen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: process %s", ErrTaskNotFound, processID)
	}
	if err != nil {
		return "", fmt.Errorf("workflow: find open task: %w", err)
	}
	return id, nil
}

// ListOpenTasks は未完了のタスクをプロセス変数付きで古い順に返します。
func (e *Engine) ListOpenTasks(ctx context.Context) ([]Task, error) {
	rows, err := e.db.QueryxContext(ctx, `
		SELECT t.id, t.process_instance_id, p.process_key, t.name, t.status, p.variables, t.created_at
		  FROM tasks t
		  JOIN process_instances p ON p.id = t.process_instance_id
		 WHERE t.status = ?
		 ORDER BY t.created_at, t.id`, StatusOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("workflow: query open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var (
			t    Task
			vars string
		)
		if err := rows.Scan(&t.ID, &t.ProcessInstanceID, &t.ProcessKey, &t.Name, &t.Status, &vars, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("workflow: scan task: %w", err)
		}
		if t.Variables, err = decodeVariables(vars); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ProcessStatus はプロセスの状態と変数を返します。
func (e *Engine) ProcessStatus(ctx context.Context, processID string) (string, map[string]string, error) {
	var status, vars string
	err := e.db.QueryRowxContext(ctx, "SELECT status, variables FROM process_instances WHERE id = ?", processID).Scan(&status, &vars)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, fmt.Errorf("workflow: process %s not found", processID)
	}
	if err != nil {
		return "", nil, fmt.Errorf("workflow: load process %s: %w", processID, err)
	}
	decoded, err := decodeVariables(vars)
	if err != nil {
		return "", nil, err
	}
	return status, decoded, nil
}

func (e *Engine) taskName(key string) string {
	if name, ok := e.taskNames[key]; ok && name != "" {
		return name
	}
	return defaultTaskName
}

func encodeVariables(vars map[string]string) (string, error) {
	if len(vars) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("workflow: marshal variables: %w", err)
	}
	return string(b), nil
}

func decodeVariables(raw string) (map[string]string, error) {
	vars := make(map[string]string)
	if raw == "" {
		return vars, nil
	}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return nil, fmt.Errorf("workflow: unmarshal variables: %w", err)
	}
	return vars, nil
}
