// Package services holds the recurrence materialization logic run when
// an account is opened.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/core"
)

// Ledger is the slice of the account model the recurring processor
// needs: a snapshot of current transactions, id allocation, and the
// atomic insert-successor-and-clear-original write.
type Ledger interface {
	Snapshot() []core.Transaction
	NextAvailableID() int
	MaterializeRecurrence(ctx context.Context, successor, original core.Transaction) error
}

// RecurringProcessor advances recurring transactions by exactly one
// occurrence per pass. Each materialized occurrence is an ordinary
// transaction row carrying the repeat interval forward, while the
// original's interval is cleared: a chain of transactions, each handing
// recurrence off to its successor, rather than a mutable rule.
type RecurringProcessor struct {
	ledger Ledger
}

func NewRecurringProcessor(ledger Ledger) *RecurringProcessor {
	return &RecurringProcessor{ledger: ledger}
}

// ProcessDue materializes every recurring transaction whose next
// scheduled occurrence is on or before today. It walks a fixed snapshot
// taken at entry, so transactions created during the pass are not
// re-examined. Returns how many successors were created; per-row
// failures are logged and skipped, and an error is returned only to
// signal that at least one row was left unresolved.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, today core.Date) (int, error) {
	if p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	snapshot := p.ledger.Snapshot()
	processed := 0
	failed := 0

	for _, t := range snapshot {
		if t.Repeat == core.Never {
			continue
		}
		if today.Before(t.Repeat.Next(t.Date)) {
			continue
		}

		// Ids are recomputed per materialization so successors created
		// earlier in this pass never collide.
		successor := core.Transaction{
			ID:          p.ledger.NextAvailableID(),
			Date:        today,
			Description: t.Description,
			Type:        t.Type,
			Repeat:      t.Repeat,
			Amount:      t.Amount,
			GroupID:     t.GroupID,
		}

		if err := p.ledger.MaterializeRecurrence(ctx, successor, t); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring transaction",
				"original_id", t.ID,
				"description", t.Description,
				"interval", t.Repeat.String(),
				"error", err)
			failed++
			continue
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring transaction",
			"original_id", t.ID,
			"successor_id", successor.ID,
			"interval", t.Repeat.String(),
			"date", today.String())
	}

	if failed > 0 {
		return processed, fmt.Errorf("%d recurring transaction(s) left unresolved", failed)
	}
	return processed, nil
}
