package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

var ErrRowNotFound = errors.New("row not found")

// lockQueries whitelists the tables LockRow may lock.
var lockQueries = map[string]string{
	"referral_claims":   `SELECT id FROM referral_claims WHERE id = $1 FOR UPDATE`,
	"referral_earnings": `SELECT id FROM referral_earnings WHERE id = $1 FOR UPDATE`,
	"content_items":     `SELECT id FROM content_items WHERE id = $1 FOR UPDATE`,
}

type TxManager interface {
	Begin(ctx context.Context) (*sql.Tx, error)
	LockRow(ctx context.Context, tx *sql.Tx, table string, id int64) error
	AdvisoryLock(ctx context.Context, tx *sql.Tx, key int64) error
	Commit(tx *sql.Tx) error
	Rollback(tx *sql.Tx) error
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return tx, nil
}

// LockRow takes an exclusive row lock held until tx ends.
func (m *txManager) LockRow(ctx context.Context, tx *sql.Tx, table string, id int64) error {
	query, ok := lockQueries[table]
	if !ok {
		return fmt.Errorf("table %q is not lockable", table)
	}

	var locked int64
	err := tx.QueryRowContext(ctx, query, id).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRowNotFound
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

// AdvisoryLock serializes transactions sharing key until tx ends.
func (m *txManager) AdvisoryLock(ctx context.Context, tx *sql.Tx, key int64) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (m *txManager) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (m *txManager) Rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// WithinTx commits when fn succeeds and rolls back on error or panic.
func (m *txManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			m.Rollback(tx)
			panic(p)
		} else if err != nil {
			m.Rollback(tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = m.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pick(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}
