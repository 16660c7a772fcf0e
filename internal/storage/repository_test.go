package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.nmoney"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransaction(id int) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        core.NewDate(2026, 8, 1),
		Description: "Rent",
		Type:        core.Expense,
		Repeat:      core.Monthly,
		Amount:      decimal.RequireFromString("850.00"),
		GroupID:     core.NoGroup,
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := testTransaction(1)
	if err := repo.InsertTransaction(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].ID != want.ID || got[0].Description != want.Description ||
		got[0].Type != want.Type || got[0].Repeat != want.Repeat ||
		got[0].GroupID != want.GroupID {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if got[0].Date.String() != "2026-08-01" {
		t.Fatalf("date mismatch: %s", got[0].Date)
	}
	if !got[0].Amount.Equal(want.Amount) {
		t.Fatalf("amount mismatch: %s != %s", got[0].Amount, want.Amount)
	}
}

func TestAmountKeepsDecimalPrecision(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// 0.1 + 0.2 style values that binary floats cannot hold exactly.
	tx := testTransaction(1)
	tx.Amount = decimal.RequireFromString("0.30")
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Amount.String() != "0.3" {
		t.Fatalf("expected exact 0.3, got %s", got[0].Amount)
	}
}

func TestListOrderedByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, id := range []int{3, 1, 2} {
		if err := repo.InsertTransaction(ctx, testTransaction(id)); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestUpdateTransactionReplacesAllColumns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.InsertTransaction(ctx, testTransaction(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated := core.Transaction{
		ID:          1,
		Date:        core.NewDate(2026, 9, 2),
		Description: "Rent (raised)",
		Type:        core.Expense,
		Repeat:      core.Never,
		Amount:      decimal.RequireFromString("900.00"),
		GroupID:     4,
	}
	if err := repo.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Description != "Rent (raised)" || got[0].Repeat != core.Never || got[0].GroupID != 4 {
		t.Fatalf("update not applied: %+v", got[0])
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.UpdateTransaction(context.Background(), testTransaction(42))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.InsertTransaction(ctx, testTransaction(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(got))
	}

	if err := repo.DeleteTransaction(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent id, got %v", err)
	}
}

func TestMaterializeRecurrence(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	original := testTransaction(1)
	if err := repo.InsertTransaction(ctx, original); err != nil {
		t.Fatalf("insert: %v", err)
	}

	successor := original
	successor.ID = 2
	successor.Date = core.NewDate(2026, 9, 1)
	if err := repo.MaterializeRecurrence(ctx, successor, original); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].Repeat != core.Never {
		t.Fatalf("original repeat not cleared: %v", got[0].Repeat)
	}
	if got[1].Repeat != core.Monthly {
		t.Fatalf("successor should carry the interval forward: %v", got[1].Repeat)
	}
}

func TestMaterializeRecurrenceIsAtomic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	original := testTransaction(1)
	if err := repo.InsertTransaction(ctx, original); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Successor id collides with the original: the insert fails and the
	// original's repeat interval must stay untouched.
	successor := original
	if err := repo.MaterializeRecurrence(ctx, successor, original); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].Repeat != core.Monthly {
		t.Fatalf("failed materialization must not clear the original, got %v", got[0].Repeat)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	g := core.Group{ID: 1, Name: "Home", Description: "Household costs"}
	if err := repo.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	g.Name = "Household"
	if err := repo.UpdateGroup(ctx, g); err != nil {
		t.Fatalf("update group: %v", err)
	}

	groups, err := repo.ListGroups(ctx)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Household" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestDeleteGroupDetachesTransactions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.InsertGroup(ctx, core.Group{ID: 1, Name: "Home", Description: "d"}); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	tx := testTransaction(1)
	tx.GroupID = 1
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert transaction: %v", err)
	}

	if err := repo.DeleteGroup(ctx, 1); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	groups, err := repo.ListGroups(ctx)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if got[0].GroupID != core.NoGroup {
		t.Fatalf("transaction not detached: gid=%d", got[0].GroupID)
	}

	if err := repo.DeleteGroup(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent group, got %v", err)
	}
}
