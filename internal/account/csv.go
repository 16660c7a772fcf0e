package account

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"moneta/internal/core"
)

// csvHeader is the exported column layout:
// ID;Date;Description;Type;RepeatInterval;Amount;GroupID
var csvHeader = []string{"ID", "Date", "Description", "Type", "RepeatInterval", "Amount", "GroupID"}

// ExportCSV writes every transaction to a semicolon-separated CSV file
// at path, ordered by id.
func (a *Account) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	for _, t := range a.Transactions() {
		record := []string{
			strconv.Itoa(t.ID),
			t.Date.String(),
			t.Description,
			strconv.Itoa(int(t.Type)),
			strconv.Itoa(int(t.Repeat)),
			t.Amount.String(),
			strconv.Itoa(t.GroupID),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// ImportCSV reads transactions from a semicolon-separated CSV file and
// adds them to the account. Rows whose id already exists and rows that
// fail to parse are skipped. Returns the number of transactions
// imported.
func (a *Account) ImportCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("import csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.Comment = '#'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("import csv: %w", err)
	}

	imported := 0
	for i, record := range records {
		t, err := parseCSVRecord(record)
		if err != nil {
			// The header row fails id parsing and lands here too.
			if i > 0 {
				slog.WarnContext(ctx, "Skipping malformed CSV row",
					"path", path, "row", i+1, "error", err)
			}
			continue
		}
		if _, exists := a.transactions[t.ID]; exists {
			continue
		}
		if err := a.AddTransaction(ctx, t); err != nil {
			slog.WarnContext(ctx, "Skipping CSV row that failed to persist",
				"path", path, "row", i+1, "id", t.ID, "error", err)
			continue
		}
		imported++
	}
	return imported, nil
}

func parseCSVRecord(record []string) (core.Transaction, error) {
	if len(record) < len(csvHeader) {
		return core.Transaction{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}
	id, err := strconv.Atoi(record[0])
	if err != nil || id <= 0 {
		return core.Transaction{}, fmt.Errorf("invalid id %q", record[0])
	}
	date, err := core.ParseDate(record[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q", record[1])
	}
	typ, err := strconv.Atoi(record[3])
	if err != nil || (typ != int(core.Income) && typ != int(core.Expense)) {
		return core.Transaction{}, fmt.Errorf("invalid type %q", record[3])
	}
	repeat, err := strconv.Atoi(record[4])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid repeat interval %q", record[4])
	}
	interval := core.RepeatInterval(repeat)
	if err := interval.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid repeat interval %q", record[4])
	}
	amount, err := core.ParseAmount(record[5])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", record[5])
	}
	groupID, err := strconv.Atoi(record[6])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid group id %q", record[6])
	}

	return core.Transaction{
		ID:          id,
		Date:        date,
		Description: record[2],
		Type:        core.TransactionType(typ),
		Repeat:      interval,
		Amount:      amount,
		GroupID:     groupID,
	}, nil
}
