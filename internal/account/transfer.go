package account

import (
	"context"
	"fmt"
	"os"

	"moneta/internal/core"
)

// SendTransfer records the transfer as an expense in this account and
// as an income in the destination account. The destination file must
// already exist and must not be this account's own file. Opening the
// destination runs its own recurrence pass, the same as any open.
func (a *Account) SendTransfer(ctx context.Context, transfer core.Transfer) (core.Transaction, error) {
	if transfer.SourceAccountPath != a.path {
		return core.Transaction{}, fmt.Errorf("send transfer: source %q is not this account", transfer.SourceAccountPath)
	}
	if transfer.DestAccountPath == a.path {
		return core.Transaction{}, fmt.Errorf("send transfer: %w", ErrSamePath)
	}
	if _, err := os.Stat(transfer.DestAccountPath); err != nil {
		return core.Transaction{}, fmt.Errorf("send transfer: %w", ErrPathNotFound)
	}

	dest, err := Open(ctx, transfer.DestAccountPath)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("send transfer: open destination: %w", err)
	}
	defer dest.Close()

	if _, err := dest.ReceiveTransfer(ctx, transfer); err != nil {
		return core.Transaction{}, fmt.Errorf("send transfer: %w", err)
	}

	expense := core.Transaction{
		ID:          a.NextAvailableID(),
		Date:        core.Today(),
		Description: fmt.Sprintf("Transfer to %s", displayName(transfer.DestAccountPath)),
		Type:        core.Expense,
		Repeat:      core.Never,
		Amount:      transfer.Amount,
		GroupID:     core.NoGroup,
	}
	if err := a.AddTransaction(ctx, expense); err != nil {
		return core.Transaction{}, fmt.Errorf("send transfer: record expense: %w", err)
	}
	return expense, nil
}

// ReceiveTransfer records the incoming side of a transfer as an income
// transaction in this account.
func (a *Account) ReceiveTransfer(ctx context.Context, transfer core.Transfer) (core.Transaction, error) {
	income := core.Transaction{
		ID:          a.NextAvailableID(),
		Date:        core.Today(),
		Description: fmt.Sprintf("Transfer from %s", displayName(transfer.SourceAccountPath)),
		Type:        core.Income,
		Repeat:      core.Never,
		Amount:      transfer.Amount,
		GroupID:     core.NoGroup,
	}
	if err := a.AddTransaction(ctx, income); err != nil {
		return core.Transaction{}, fmt.Errorf("receive transfer: %w", err)
	}
	return income, nil
}
