package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Querier is the subset of *sql.DB and *sql.Tx the stores use, so the same
// store runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Stores groups every entity store bound to one Querier.
type Stores struct {
	Users     *UserStore
	Profiles  *ProfileStore
	Areas     *AreaStore
	Rooms     *RoomStore
	Furniture *FurnitureStore
	Items     *ItemStore
	Lineage   *Lineage
}

func New(q Querier) *Stores {
	return &Stores{
		Users:     NewUserStore(q),
		Profiles:  NewProfileStore(q),
		Areas:     NewAreaStore(q),
		Rooms:     NewRoomStore(q),
		Furniture: NewFurnitureStore(q),
		Items:     NewItemStore(q),
		Lineage:   NewLineage(q),
	}
}

// DB runs store work inside transactions.
type DB struct {
	db *sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// InTx runs fn against stores bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (d *DB) InTx(ctx context.Context, fn func(*Stores) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(New(tx)); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to roll back transaction", "error", rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
)

// constraintOf classifies a SQLite constraint failure.
func constraintOf(err error) constraint {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return constraintNone
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return constraintCheck
	}
	if serr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return constraintNone
	}
	msg := serr.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"):
		return constraintUnique
	case strings.Contains(msg, "FOREIGN KEY"):
		return constraintForeignKey
	case strings.Contains(msg, "CHECK"):
		return constraintCheck
	}
	return constraintNone
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
