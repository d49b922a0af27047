package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jbeshir/template-catalog/internal/domain"
)

func Connect(ctx context.Context, uri string) (*sql.DB, error) {
	cfg, err := mysqldriver.ParseDSN(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysqldriver.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL DB: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking MySQL DB connection: %w", err)
	}

	return db, nil
}

const (
	errNumDuplicateEntry  = 1062
	errNumLockWaitTimeout = 1205
	errNumDeadlock        = 1213
	errNumNoReferencedRow = 1452
)

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errNumDuplicateEntry
}

// isLockContention reports whether InnoDB gave up on the transaction because of another one.
// The transaction has been rolled back and is safe to retry from a fresh read.
func isLockContention(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == errNumDeadlock || mysqlErr.Number == errNumLockWaitTimeout
}

func isMissingReference(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errNumNoReferencedRow
}

// withTx runs fn in a transaction, committing if it returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// withLedgerTx is withTx for ledger writes, with lock contention reported through ledgerTxError.
func withLedgerTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return ledgerTxError(withTx(ctx, db, fn))
}

// ledgerTxError reports a deadlock or lock wait timeout as domain.ErrContention, so the ledger
// re-reads the exclusive slot and retries instead of failing the request.
func ledgerTxError(err error) error {
	if isLockContention(err) {
		return fmt.Errorf("%w: %w", domain.ErrContention, err)
	}
	return err
}
