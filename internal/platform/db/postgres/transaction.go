package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrReadOnlyTransaction は読み取り専用トランザクションの中で読み書きトランザクションを要求した場合に返却されます。
var ErrReadOnlyTransaction = errors.New("postgres: read-write work requested inside a read-only transaction")

type txContextKey struct{}

// txState はコンテキストに格納する実行中トランザクションです。
// hooks は最も外側のトランザクションが確定した後に登録順で実行されます。
type txState struct {
	tx    pgx.Tx
	mode  pgx.TxAccessMode
	hooks *[]func(context.Context)
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は pgx を用いたトランザクション制御を提供します。
// 入れ子の呼び出しは外側のトランザクションをそのまま使います。
type TransactionManager struct {
	pool        txStarter
	isolation   pgx.TxIsoLevel
	lockTimeout time.Duration
}

// TxOption は TransactionManager の設定を変更します。
type TxOption func(*TransactionManager)

// WithIsolation は読み書きトランザクションの分離レベルを指定します。既定は READ COMMITTED です。
func WithIsolation(level pgx.TxIsoLevel) TxOption {
	return func(m *TransactionManager) {
		m.isolation = level
	}
}

// WithLockTimeout は読み書きトランザクション内の行ロック待ちの上限を設定します。0 は無制限です。
func WithLockTimeout(d time.Duration) TxOption {
	return func(m *TransactionManager) {
		m.lockTimeout = d
	}
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(pool txStarter, opts ...TxOption) *TransactionManager {
	if pool == nil {
		return nil
	}
	m := &TransactionManager{pool: pool, isolation: pgx.ReadCommitted}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{IsoLevel: m.isolation, AccessMode: pgx.ReadWrite}, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	if outer, ok := stateFromContext(ctx); ok {
		if outer.mode == pgx.ReadOnly && opts.AccessMode == pgx.ReadWrite {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if opts.AccessMode == pgx.ReadWrite && m.lockTimeout > 0 {
		// SET LOCAL はパラメータを受け付けないためミリ秒の整数を埋め込みます。
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: set lock_timeout: %w", err)
		}
	}

	var hooks []func(context.Context)
	txCtx := context.WithValue(ctx, txContextKey{}, txState{tx: tx, mode: opts.AccessMode, hooks: &hooks})

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if !errors.Is(err, pgx.ErrTxClosed) {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				return errors.Join(fmt.Errorf("postgres: commit: %w", err), fmt.Errorf("postgres: rollback after commit failure: %w", rbErr))
			}
		}
		return fmt.Errorf("postgres: commit: %w", err)
	}

	committed = true
	for _, hook := range hooks {
		hook(ctx)
	}
	return nil
}

// AfterCommit は ctx のトランザクションが確定した後に fn を実行するよう登録します。
// ロールバックされた場合 fn は実行されません。トランザクション外では即座に実行します。
func (m *TransactionManager) AfterCommit(ctx context.Context, fn func(context.Context)) {
	if fn == nil {
		return
	}
	st, ok := stateFromContext(ctx)
	if !ok || st.hooks == nil {
		fn(ctx)
		return
	}
	*st.hooks = append(*st.hooks, fn)
}

func stateFromContext(ctx context.Context) (txState, bool) {
	if ctx == nil {
		return txState{}, false
	}
	st, ok := ctx.Value(txContextKey{}).(txState)
	return st, ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	st, ok := stateFromContext(ctx)
	return st.tx, ok
}

// QueryerFromContext はコンテキスト内にトランザクションが存在すればそれを返し、存在しなければ fallback を返します。
// リポジトリはすべてこれを経由してクエリを発行します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
