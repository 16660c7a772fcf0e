// Package account implements the account model: a persistent collection
// of transactions and groups backed by one SQLite file, with aggregate
// queries, transfers, backup/restore and recurrence materialization on
// open.
package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/services"
	"moneta/internal/storage"
)

var (
	// ErrSamePath is returned when a backup or restore targets the
	// account's own file.
	ErrSamePath = errors.New("path equals the account's own path")
	// ErrPathNotFound is returned when a backup or restore target does
	// not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrGroupNameInUse is returned when another group already holds a
	// proposed group name.
	ErrGroupNameInUse = errors.New("group name already in use")
)

// Account owns the durable set of transactions and groups for one
// account file. Exactly one in-process owner exists for an account at a
// time; all operations are synchronous.
type Account struct {
	repo         *storage.Repository
	path         string
	transactions map[int]core.Transaction
	groups       map[int]core.Group
}

// Open opens or creates the account file at path, loads its contents
// and materializes due recurring transactions before returning.
func Open(ctx context.Context, path string) (*Account, error) {
	return OpenAsOf(ctx, path, core.Today())
}

// OpenAsOf is Open with an explicit "today", used to drive recurrence
// deterministically.
func OpenAsOf(ctx context.Context, path string, today core.Date) (*Account, error) {
	repo, err := storage.NewRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}

	a := &Account{
		repo: repo,
		path: path,
	}
	if err := a.load(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("open account: %w", err)
	}

	// Materialization failures are non-fatal: the affected transaction
	// stays recurring and is retried on the next open.
	processed, err := services.NewRecurringProcessor(a).ProcessDue(ctx, today)
	if err != nil {
		slog.WarnContext(ctx, "Recurrence materialization incomplete",
			"path", path, "processed", processed, "error", err)
	}

	return a, nil
}

func (a *Account) load(ctx context.Context) error {
	transactions, err := a.repo.ListTransactions(ctx)
	if err != nil {
		return err
	}
	groups, err := a.repo.ListGroups(ctx)
	if err != nil {
		return err
	}
	a.transactions = make(map[int]core.Transaction, len(transactions))
	for _, t := range transactions {
		a.transactions[t.ID] = t
	}
	a.groups = make(map[int]core.Group, len(groups))
	for _, g := range groups {
		a.groups[g.ID] = g
	}
	return nil
}

// Close releases the underlying account file.
func (a *Account) Close() error {
	return a.repo.Close()
}

// Path returns the filesystem path of the account file.
func (a *Account) Path() string {
	return a.path
}

// Transactions returns every transaction ordered by id ascending.
func (a *Account) Transactions() []core.Transaction {
	out := make([]core.Transaction, 0, len(a.transactions))
	for _, t := range a.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TransactionByID returns the transaction with the given id, or false
// when no such transaction exists.
func (a *Account) TransactionByID(id int) (core.Transaction, bool) {
	t, ok := a.transactions[id]
	return t, ok
}

// NextAvailableID returns max(existing ids)+1, or 1 for an empty
// account. Recomputed from current contents at every call; issued ids
// are never tracked separately.
func (a *Account) NextAvailableID() int {
	next := 1
	for id := range a.transactions {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// AddTransaction persists t and then inserts it in memory. A failed
// persist leaves memory untouched.
func (a *Account) AddTransaction(ctx context.Context, t core.Transaction) error {
	if err := a.repo.InsertTransaction(ctx, t); err != nil {
		return err
	}
	a.transactions[t.ID] = t
	return nil
}

// UpdateTransaction persists t keyed by its id and, on success,
// replaces the in-memory entry entirely.
func (a *Account) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := a.repo.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	a.transactions[t.ID] = t
	return nil
}

// DeleteTransaction removes the transaction from the store and then
// from memory. Returns storage.ErrNotFound when the id is absent.
func (a *Account) DeleteTransaction(ctx context.Context, id int) error {
	if err := a.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	delete(a.transactions, id)
	return nil
}

// Income returns the exact sum of all income amounts.
func (a *Account) Income() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.transactions {
		if t.Type == core.Income {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Expense returns the exact sum of all expense amounts.
func (a *Account) Expense() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.transactions {
		if t.Type == core.Expense {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Total returns income minus expense, exactly.
func (a *Account) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.transactions {
		sum = sum.Add(t.Signed())
	}
	return sum
}

// Snapshot implements services.Ledger.
func (a *Account) Snapshot() []core.Transaction {
	return a.Transactions()
}

// MaterializeRecurrence implements services.Ledger: it persists the
// successor and the cleared original as one failure unit, then applies
// both in-memory mutations.
func (a *Account) MaterializeRecurrence(ctx context.Context, successor, original core.Transaction) error {
	if err := a.repo.MaterializeRecurrence(ctx, successor, original); err != nil {
		return err
	}
	a.transactions[successor.ID] = successor
	original.Repeat = core.Never
	a.transactions[original.ID] = original
	return nil
}

// Backup copies the whole account file to path. The target must already
// exist and must not be the account's own file.
func (a *Account) Backup(path string) error {
	if err := a.checkCopyTarget(path); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	if err := copyFile(a.path, path); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore replaces the account file with the one at path and reloads
// the in-memory sets. The source must exist and must not be the
// account's own file. No recurrence pass runs on restore.
func (a *Account) Restore(ctx context.Context, path string) error {
	if err := a.checkCopyTarget(path); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := a.repo.Close(); err != nil {
		return fmt.Errorf("restore: close account: %w", err)
	}
	if err := copyFile(path, a.path); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	repo, err := storage.NewRepository(a.path)
	if err != nil {
		return fmt.Errorf("restore: reopen account: %w", err)
	}
	a.repo = repo
	if err := a.load(ctx); err != nil {
		return fmt.Errorf("restore: reload: %w", err)
	}
	return nil
}

func (a *Account) checkCopyTarget(path string) error {
	if path == a.path {
		return ErrSamePath
	}
	if _, err := os.Stat(path); err != nil {
		return ErrPathNotFound
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Sync()
}

// displayName is the human-readable account name used in transfer
// descriptions: the file name without its extension.
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
