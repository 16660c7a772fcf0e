package core

import "strings"

// Check statuses returned to edit-dialog callers. Validation never
// mutates a model; callers apply the input only on a Valid status.

type TransactionCheckStatus int

const (
	TransactionValid TransactionCheckStatus = iota
	TransactionEmptyDescription
	TransactionEmptyAmount
	TransactionInvalidAmount
)

type GroupCheckStatus int

const (
	GroupValid GroupCheckStatus = iota
	GroupEmptyName
	GroupEmptyDescription
	GroupNameInUse
)

type TransferCheckStatus int

const (
	TransferValid TransferCheckStatus = iota
	TransferInvalidDestPath
	TransferInvalidAmount
)

// CheckTransactionInput validates raw dialog input for a transaction.
func CheckTransactionInput(description, amount string) TransactionCheckStatus {
	if strings.TrimSpace(description) == "" {
		return TransactionEmptyDescription
	}
	if strings.TrimSpace(amount) == "" {
		return TransactionEmptyAmount
	}
	if _, err := ParseAmount(amount); err != nil {
		return TransactionInvalidAmount
	}
	return TransactionValid
}

// CheckGroupInput validates raw dialog input for a group. nameInUse
// reports whether another group already holds the proposed name; a
// group keeping its own current name passes.
func CheckGroupInput(name, description string, nameInUse bool) GroupCheckStatus {
	if strings.TrimSpace(name) == "" {
		return GroupEmptyName
	}
	if strings.TrimSpace(description) == "" {
		return GroupEmptyDescription
	}
	if nameInUse {
		return GroupNameInUse
	}
	return GroupValid
}

// CheckTransferInput validates raw dialog input for a transfer.
// destExists reports whether the destination account file exists.
func CheckTransferInput(destPath string, destExists bool, amount string) TransferCheckStatus {
	if strings.TrimSpace(destPath) == "" || !destExists {
		return TransferInvalidDestPath
	}
	if _, err := ParseAmount(amount); err != nil {
		return TransferInvalidAmount
	}
	return TransferValid
}
