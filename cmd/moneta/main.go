package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"moneta/internal/account"
	"moneta/internal/cli"
	"moneta/internal/config"
	"moneta/internal/core"
)

const usage = `moneta - personal account-file manager

Usage:
  moneta <command> [options]

Commands:
  list       list an account's transactions
  add        add an income or expense transaction
  delete     delete a transaction by id
  summary    show income, expense and total
  groups     list groups with balances
  group      add, update or delete a group
  transfer   move money to another account file
  backup     copy the account file to a backup path
  restore    replace the account file from a backup path
  export     export transactions as CSV
  import     import transactions from CSV

Every command takes -account (name in the account directory, or a path).
`

func main() {
	cli.LoadEnvFile()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	logger := cli.SetupLogger(os.Getenv("MONETA_LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, cfg, os.Args[2:])
	case "add":
		err = runAdd(ctx, cfg, os.Args[2:])
	case "delete":
		err = runDelete(ctx, cfg, os.Args[2:])
	case "summary":
		err = runSummary(ctx, cfg, os.Args[2:])
	case "groups":
		err = runGroups(ctx, cfg, os.Args[2:])
	case "group":
		err = runGroup(ctx, cfg, os.Args[2:])
	case "transfer":
		err = runTransfer(ctx, cfg, os.Args[2:])
	case "backup":
		err = runBackup(ctx, cfg, os.Args[2:])
	case "restore":
		err = runRestore(ctx, cfg, os.Args[2:])
	case "export":
		err = runExport(ctx, cfg, os.Args[2:])
	case "import":
		err = runImport(ctx, cfg, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func openAccount(ctx context.Context, cfg *config.Config, name string) (*account.Account, error) {
	path := cfg.AccountPath(name)
	if path == "" {
		return nil, fmt.Errorf("no account given: pass -account or set MONETA_ACCOUNT")
	}
	return account.Open(ctx, path)
}

func runList(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, t := range a.Transactions() {
		group := ""
		if t.GroupID != core.NoGroup {
			if g, ok := a.GroupByID(t.GroupID); ok {
				group = " [" + g.Name + "]"
			}
		}
		repeat := ""
		if t.Repeat != core.Never {
			repeat = " (" + t.Repeat.String() + ")"
		}
		fmt.Printf("%4d  %s  %-8s %10s  %s%s%s\n",
			t.ID, t.Date.String(), t.Type.String(), t.Amount.StringFixed(2), t.Description, group, repeat)
	}
	return nil
}

func runAdd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	desc := fs.String("desc", "", "transaction description")
	amountStr := fs.String("amount", "", "amount (positive decimal)")
	typeStr := fs.String("type", "expense", "income or expense")
	dateStr := fs.String("date", "", "date (yyyy-mm-dd, default today)")
	repeatStr := fs.String("repeat", "never", "never, daily, weekly, monthly, quarterly, yearly or biyearly")
	groupID := fs.Int("group", core.NoGroup, "group id")
	fs.Parse(args)

	if status := core.CheckTransactionInput(*desc, *amountStr); status != core.TransactionValid {
		switch status {
		case core.TransactionEmptyDescription:
			return fmt.Errorf("description cannot be empty")
		case core.TransactionEmptyAmount:
			return fmt.Errorf("amount cannot be empty")
		default:
			return fmt.Errorf("invalid amount %q", *amountStr)
		}
	}
	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		return err
	}

	txType := core.Expense
	if *typeStr == "income" {
		txType = core.Income
	} else if *typeStr != "expense" {
		return fmt.Errorf("invalid type %q: must be income or expense", *typeStr)
	}

	date := core.Today()
	if *dateStr != "" {
		if date, err = core.ParseDate(*dateStr); err != nil {
			return fmt.Errorf("invalid date %q", *dateStr)
		}
	}

	repeat, err := parseInterval(*repeatStr)
	if err != nil {
		return err
	}

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	t := core.Transaction{
		ID:          a.NextAvailableID(),
		Date:        date,
		Description: *desc,
		Type:        txType,
		Repeat:      repeat,
		Amount:      amount,
		GroupID:     *groupID,
	}
	if err := a.AddTransaction(ctx, t); err != nil {
		return err
	}
	fmt.Printf("added transaction %d\n", t.ID)
	return nil
}

func runDelete(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	id := fs.Int("id", 0, "transaction id")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DeleteTransaction(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted transaction %d\n", *id)
	return nil
}

func runSummary(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("income:  %s\n", a.Income().StringFixed(2))
	fmt.Printf("expense: %s\n", a.Expense().StringFixed(2))
	fmt.Printf("total:   %s\n", a.Total().StringFixed(2))
	return nil
}

func runGroups(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("groups", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, g := range a.Groups() {
		fmt.Printf("%4d  %-20s %10s  %s\n",
			g.ID, g.Name, a.GroupBalance(g.ID).StringFixed(2), g.Description)
	}
	return nil
}

func runGroup(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("group", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	action := fs.String("action", "add", "add, update or delete")
	id := fs.Int("id", 0, "group id (update/delete)")
	groupName := fs.String("name", "", "group name")
	desc := fs.String("desc", "", "group description")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	switch *action {
	case "add":
		g := core.Group{ID: a.NextAvailableGroupID(), Name: *groupName, Description: *desc}
		if status := core.CheckGroupInput(g.Name, g.Description, a.GroupNameInUse(g.Name, g.ID)); status != core.GroupValid {
			return groupStatusError(status, g.Name)
		}
		if err := a.AddGroup(ctx, g); err != nil {
			return err
		}
		fmt.Printf("added group %d\n", g.ID)
	case "update":
		g, ok := a.GroupByID(*id)
		if !ok {
			return fmt.Errorf("no group with id %d", *id)
		}
		g.Name = *groupName
		g.Description = *desc
		if status := core.CheckGroupInput(g.Name, g.Description, a.GroupNameInUse(g.Name, g.ID)); status != core.GroupValid {
			return groupStatusError(status, g.Name)
		}
		if err := a.UpdateGroup(ctx, g); err != nil {
			return err
		}
		fmt.Printf("updated group %d\n", g.ID)
	case "delete":
		if err := a.DeleteGroup(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted group %d\n", *id)
	default:
		return fmt.Errorf("invalid action %q: must be add, update or delete", *action)
	}
	return nil
}

func runTransfer(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	name := fs.String("account", "", "source account name or path")
	to := fs.String("to", "", "destination account name or path")
	amountStr := fs.String("amount", "", "amount (positive decimal)")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	destPath := cfg.AccountPath(*to)
	destExists := false
	if destPath != "" {
		_, statErr := os.Stat(destPath)
		destExists = statErr == nil
	}
	if status := core.CheckTransferInput(destPath, destExists, *amountStr); status != core.TransferValid {
		if status == core.TransferInvalidDestPath {
			return fmt.Errorf("destination account %q does not exist", *to)
		}
		return fmt.Errorf("invalid amount %q", *amountStr)
	}
	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		return err
	}

	t, err := a.SendTransfer(ctx, core.Transfer{
		SourceAccountPath: a.Path(),
		DestAccountPath:   destPath,
		Amount:            amount,
	})
	if err != nil {
		return err
	}
	fmt.Printf("transferred %s (transaction %d)\n", amount.StringFixed(2), t.ID)
	return nil
}

func runBackup(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	to := fs.String("to", "", "backup file path (must exist)")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Backup(*to)
}

func runRestore(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	from := fs.String("from", "", "backup file path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Restore(ctx, *from)
}

func runExport(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	to := fs.String("to", "", "CSV file path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ExportCSV(*to); err != nil {
		return err
	}
	fmt.Printf("exported %d transaction(s)\n", len(a.Transactions()))
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("account", "", "account name or path")
	from := fs.String("from", "", "CSV file path")
	fs.Parse(args)

	a, err := openAccount(ctx, cfg, *name)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.ImportCSV(ctx, *from)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d transaction(s)\n", n)
	return nil
}

func parseInterval(s string) (core.RepeatInterval, error) {
	for r := core.Never; r <= core.Biyearly; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return core.Never, fmt.Errorf("invalid repeat interval %q", s)
}

func groupStatusError(status core.GroupCheckStatus, name string) error {
	switch status {
	case core.GroupEmptyName:
		return fmt.Errorf("group name cannot be empty")
	case core.GroupEmptyDescription:
		return fmt.Errorf("group description cannot be empty")
	case core.GroupNameInUse:
		return fmt.Errorf("group name %q is already in use", name)
	default:
		return nil
	}
}
