// Package storage persists one account file: a small SQLite database
// holding the account's transactions and groups.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"moneta/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row keyed by id does not exist.
var ErrNotFound = errors.New("not found")

// Repository owns the SQLite connection for a single account file.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository opens (or creates) the account file at dbPath and brings
// its schema up to date.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create account directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open account database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the filesystem path of the account file.
func (r *Repository) Path() string {
	return r.path
}

// ListTransactions returns every transaction in the account ordered by id.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, description, type, repeat, amount, gid FROM transactions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// InsertTransaction persists a new transaction row.
func (r *Repository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (id, date, description, type, repeat, amount, gid) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Date.String(), t.Description, int(t.Type), int(t.Repeat), t.Amount.String(), t.GroupID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces every column of the row keyed by t.ID.
func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET date = ?, description = ?, type = ?, repeat = ?, amount = ?, gid = ? WHERE id = ?",
		t.Date.String(), t.Description, int(t.Type), int(t.Repeat), t.Amount.String(), t.GroupID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return checkAffected(res, "update transaction")
}

// DeleteTransaction removes the row keyed by id. Returns ErrNotFound if
// no such row exists.
func (r *Repository) DeleteTransaction(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return checkAffected(res, "delete transaction")
}

// MaterializeRecurrence atomically inserts a materialized successor and
// clears the original's repeat interval. Either both writes land or
// neither does; callers apply in-memory state only after success.
func (r *Repository) MaterializeRecurrence(ctx context.Context, successor, original core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recurrence transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (id, date, description, type, repeat, amount, gid) VALUES (?, ?, ?, ?, ?, ?, ?)",
		successor.ID, successor.Date.String(), successor.Description, int(successor.Type),
		int(successor.Repeat), successor.Amount.String(), successor.GroupID); err != nil {
		return fmt.Errorf("insert successor: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE transactions SET repeat = ? WHERE id = ?",
		int(core.Never), original.ID); err != nil {
		return fmt.Errorf("clear original repeat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recurrence: %w", err)
	}

	slog.DebugContext(ctx, "Recurrence materialized",
		"original_id", original.ID,
		"successor_id", successor.ID,
		"date", successor.Date.String())
	return nil
}

// ListGroups returns every group in the account ordered by id.
func (r *Repository) ListGroups(ctx context.Context) ([]core.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description FROM groups ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []core.Group
	for rows.Next() {
		var g core.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// InsertGroup persists a new group row.
func (r *Repository) InsertGroup(ctx context.Context, g core.Group) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, description) VALUES (?, ?, ?)",
		g.ID, g.Name, g.Description)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// UpdateGroup replaces the name and description of the row keyed by g.ID.
func (r *Repository) UpdateGroup(ctx context.Context, g core.Group) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ? WHERE id = ?",
		g.Name, g.Description, g.ID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	return checkAffected(res, "update group")
}

// DeleteGroup removes a group and detaches every transaction that
// referenced it, in one SQL transaction.
func (r *Repository) DeleteGroup(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete group: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete group: %w", ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE transactions SET gid = ? WHERE gid = ?", core.NoGroup, id); err != nil {
		return fmt.Errorf("detach group transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete group: %w", err)
	}
	return nil
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t       core.Transaction
		date    string
		typ     int
		repeat  int
		amount  string
		groupID int
	)
	if err := rows.Scan(&t.ID, &date, &t.Description, &typ, &repeat, &amount, &groupID); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction amount %q: %w", amount, err)
	}
	t.Date = d
	t.Type = core.TransactionType(typ)
	t.Repeat = core.RepeatInterval(repeat)
	t.Amount = amt
	t.GroupID = groupID
	return t, nil
}
