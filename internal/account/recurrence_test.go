package account

import (
	"context"
	"path/filepath"
	"testing"

	"moneta/internal/core"
)

func openAsOf(t *testing.T, path string, today core.Date) *Account {
	t.Helper()
	a, err := OpenAsOf(context.Background(), path, today)
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpenMaterializesDueDailyTransaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.nmoney")
	ctx := context.Background()
	start := core.NewDate(2026, 8, 20)
	today := core.NewDate(2026, 8, 25)

	a := openAsOf(t, path, start)
	tx := transaction(1, core.Expense, "3.50")
	tx.Date = start
	tx.Repeat = core.Daily
	tx.Description = "Coffee"
	if err := a.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	a.Close()

	reopened := openAsOf(t, path, today)
	all := reopened.Transactions()
	if len(all) != 2 {
		t.Fatalf("expected exactly one materialized successor, got %d transactions", len(all))
	}

	original, _ := reopened.TransactionByID(1)
	if original.Repeat != core.Never {
		t.Fatalf("original interval should be cleared, got %v", original.Repeat)
	}

	successor, ok := reopened.TransactionByID(2)
	if !ok {
		t.Fatalf("expected successor with id 2")
	}
	if !successor.Date.Equal(today.Time) {
		t.Fatalf("successor dated %s, want %s", successor.Date, today)
	}
	if successor.Repeat != core.Daily || successor.Description != "Coffee" ||
		successor.Type != core.Expense || !successor.Amount.Equal(amount("3.50")) {
		t.Fatalf("successor did not copy the original: %+v", successor)
	}
}

func TestReopenSameDayProducesNothingNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.nmoney")
	ctx := context.Background()
	start := core.NewDate(2026, 8, 20)
	today := core.NewDate(2026, 8, 25)

	a := openAsOf(t, path, start)
	tx := transaction(1, core.Expense, "3.50")
	tx.Date = start
	tx.Repeat = core.Daily
	if err := a.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	a.Close()

	first := openAsOf(t, path, today)
	if len(first.Transactions()) != 2 {
		t.Fatalf("expected 2 after first reopen, got %d", len(first.Transactions()))
	}
	first.Close()

	// The successor is dated today with its interval intact; it is not
	// due again until tomorrow, and the original is Never.
	second := openAsOf(t, path, today)
	if len(second.Transactions()) != 2 {
		t.Fatalf("same-day reopen must not create transactions, got %d", len(second.Transactions()))
	}
}

func TestMonthlyRecurrenceExample(t *testing.T) {
	// Transaction dated 30+ days ago with a monthly interval: one new
	// transaction today, original becomes Never, expense grows by 10.00.
	path := filepath.Join(t.TempDir(), "main.nmoney")
	ctx := context.Background()
	start := core.NewDate(2026, 7, 1)
	today := core.NewDate(2026, 8, 2)

	a := openAsOf(t, path, start)
	tx := transaction(1, core.Expense, "10.00")
	tx.Date = start
	tx.Repeat = core.Monthly
	if err := a.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !a.Expense().Equal(amount("10.00")) {
		t.Fatalf("expense = %s before reopen", a.Expense())
	}
	a.Close()

	reopened := openAsOf(t, path, today)
	successor, ok := reopened.TransactionByID(2)
	if !ok {
		t.Fatalf("expected successor with id 2")
	}
	if successor.Repeat != core.Monthly || !successor.Date.Equal(today.Time) {
		t.Fatalf("unexpected successor: %+v", successor)
	}
	if original, _ := reopened.TransactionByID(1); original.Repeat != core.Never {
		t.Fatalf("original interval should be Never, got %v", original.Repeat)
	}
	if !reopened.Expense().Equal(amount("20.00")) {
		t.Fatalf("expense = %s, want 20.00", reopened.Expense())
	}
}

func TestChainAdvancesAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.nmoney")
	ctx := context.Background()

	a := openAsOf(t, path, core.NewDate(2026, 1, 1))
	tx := transaction(1, core.Expense, "15")
	tx.Date = core.NewDate(2026, 1, 1)
	tx.Repeat = core.Monthly
	if err := a.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	a.Close()

	// Each open advances the chain by one link, never catching up.
	days := []core.Date{
		core.NewDate(2026, 5, 1), // 4 months missed, still one successor
		core.NewDate(2026, 6, 1),
		core.NewDate(2026, 7, 1),
	}
	for i, today := range days {
		b := openAsOf(t, path, today)
		if got := len(b.Transactions()); got != i+2 {
			t.Fatalf("open %d: expected %d transactions, got %d", i+1, i+2, got)
		}
		recurring := 0
		for _, tr := range b.Transactions() {
			if tr.Repeat != core.Never {
				recurring++
			}
		}
		if recurring != 1 {
			t.Fatalf("open %d: exactly one link should stay recurring, got %d", i+1, recurring)
		}
		b.Close()
	}
}

func TestNotYetDueTransactionUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.nmoney")
	ctx := context.Background()
	start := core.NewDate(2026, 8, 20)

	a := openAsOf(t, path, start)
	tx := transaction(1, core.Income, "2000")
	tx.Date = start
	tx.Repeat = core.Monthly
	if err := a.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	a.Close()

	// 2026-09-19 is a day early for a monthly interval from 2026-08-20.
	reopened := openAsOf(t, path, core.NewDate(2026, 9, 19))
	if len(reopened.Transactions()) != 1 {
		t.Fatalf("not-due transaction must not materialize")
	}
	if tr, _ := reopened.TransactionByID(1); tr.Repeat != core.Monthly {
		t.Fatalf("interval must stay %v, got %v", core.Monthly, tr.Repeat)
	}
}
