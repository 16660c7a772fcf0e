package core

import "testing"

func TestCheckTransactionInput(t *testing.T) {
	cases := []struct {
		name        string
		description string
		amount      string
		want        TransactionCheckStatus
	}{
		{"valid", "Groceries", "12.34", TransactionValid},
		{"empty description", "", "12.34", TransactionEmptyDescription},
		{"blank description", "   ", "12.34", TransactionEmptyDescription},
		{"empty amount", "Groceries", "", TransactionEmptyAmount},
		{"unparseable amount", "Groceries", "ten", TransactionInvalidAmount},
		{"negative amount", "Groceries", "-5", TransactionInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckTransactionInput(tc.description, tc.amount); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckGroupInput(t *testing.T) {
	cases := []struct {
		name      string
		groupName string
		desc      string
		nameInUse bool
		want      GroupCheckStatus
	}{
		{"valid", "Food", "Everyday food", false, GroupValid},
		{"empty name", "", "desc", false, GroupEmptyName},
		{"empty description", "Food", "", false, GroupEmptyDescription},
		{"name in use", "Food", "desc", true, GroupNameInUse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckGroupInput(tc.groupName, tc.desc, tc.nameInUse); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckTransferInput(t *testing.T) {
	cases := []struct {
		name       string
		destPath   string
		destExists bool
		amount     string
		want       TransferCheckStatus
	}{
		{"valid", "/tmp/other.nmoney", true, "10", TransferValid},
		{"empty path", "", false, "10", TransferInvalidDestPath},
		{"missing destination", "/tmp/none.nmoney", false, "10", TransferInvalidDestPath},
		{"bad amount", "/tmp/other.nmoney", true, "zero", TransferInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckTransferInput(tc.destPath, tc.destExists, tc.amount); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
