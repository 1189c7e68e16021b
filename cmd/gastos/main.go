// Command gastos records incomes and expenses in the local database and
// reports balance and savings per user.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/cli"
	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/storage"
)

const usage = `Usage: gastos <command> [flags]

Commands:
  init                                   create or install the database
  add-user -name NAME                    register a user
  user -id ID                            show one user
  users                                  list users
  add-income -user ID -amount N [-date]  record an income
  incomes -user ID                       list a user's incomes
  add-expense -user ID -amount N -category C -payment P [flags]
                                         record an expense
  expenses -user ID                      list a user's expenses
  expense -id ID                         show one expense
  summary -user ID                       show balance and savings
  watch                                  print entries as they are recorded
`

const dateLayout = "2006-01-02"

func main() {
	cli.LoadEnvFile()
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a command needs. It is built once per invocation.
type app struct {
	logger     *log.Logger
	db         *storage.DB
	users      *storage.UserRepository
	incomes    *storage.IncomeRepository
	expenses   *storage.ExpenseRepository
	entries    *services.EntryService
	calculator *services.Calculator
	amqp       *amqp.Client
	stdout     io.Writer
	stderr     io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}
	cmd, rest := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	commands := map[string]func(context.Context, *app, []string) error{
		"init":        runInit,
		"add-user":    runAddUser,
		"user":        runUser,
		"users":       runUsers,
		"add-income":  runAddIncome,
		"incomes":     runIncomes,
		"add-expense": runAddExpense,
		"expenses":    runExpenses,
		"expense":     runExpense,
		"summary":     runSummary,
		"watch":       runWatch,
	}
	command, ok := commands[cmd]
	if !ok {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := cli.InitDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	a := &app{
		logger:   logger,
		db:       db,
		users:    storage.NewUserRepository(db),
		incomes:  storage.NewIncomeRepository(db),
		expenses: storage.NewExpenseRepository(db),
		stdout:   stdout,
		stderr:   stderr,
	}
	a.calculator = services.NewCalculator(a.incomes, a.expenses)

	client, err := cli.NewAMQPClient(cfg)
	if err != nil {
		if cmd == "watch" {
			return err
		}
		logger.Warn("Change feed unavailable, continuing without notifications", log.FieldError, err)
	}
	if client != nil {
		defer client.Close()
		a.amqp = client
		a.entries = services.NewEntryService(a.incomes, a.expenses, client)
	} else {
		a.entries = services.NewEntryService(a.incomes, a.expenses, nil)
	}

	logger.Debug("Command starting",
		log.FieldOperation, log.OpStartup,
		"command", cmd,
		log.FieldEnv, cfg.Environment,
		log.FieldPath, db.Path())
	return command(ctx, a, rest)
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func runInit(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet(a, "init").Parse(args); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Database ready at %s\n", a.db.Path())
	return nil
}

func runAddUser(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "add-user")
	name := fs.String("name", "", "User name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := a.users.AddUser(ctx, core.NewUser{Name: *name})
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	fmt.Fprintf(a.stdout, "User %s created with ID %d\n", strings.TrimSpace(*name), id)
	return nil
}

func runUser(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "user")
	id := fs.Int64("id", 0, "User ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flags: id")
	}

	user, found, err := a.users.GetUserByID(ctx, *id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !found {
		return fmt.Errorf("user %d: %w", *id, core.ErrUserNotFound)
	}
	fmt.Fprintf(a.stdout, "%d\t%s\n", user.ID, user.Name)
	return nil
}

func runUsers(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet(a, "users").Parse(args); err != nil {
		return err
	}

	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(a.stdout, "No users")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\n", u.ID, u.Name)
	}
	return tw.Flush()
}

func runAddIncome(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "add-income")
	userID := fs.Int64("user", 0, "User ID")
	amount := fs.String("amount", "", "Amount, e.g. 1000 or 12,50")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := parseNewIncome(*userID, *amount, *date)
	if err != nil {
		return err
	}
	id, err := a.entries.AddIncome(ctx, in)
	if err != nil {
		return fmt.Errorf("add income: %w", err)
	}
	fmt.Fprintf(a.stdout, "Income %d recorded: %.2f on %s\n", id, in.Amount, in.Date.Format(dateLayout))
	return nil
}

func runIncomes(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "incomes")
	userID := fs.Int64("user", 0, "User ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("missing required flags: user")
	}

	incomes, err := a.incomes.GetIncomesByUser(ctx, *userID)
	if err != nil {
		return fmt.Errorf("list incomes: %w", err)
	}
	if len(incomes) == 0 {
		fmt.Fprintln(a.stdout, "No incomes")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT")
	for _, in := range incomes {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\n", in.ID, in.Date.Format(dateLayout), in.Amount)
	}
	return tw.Flush()
}

func runAddExpense(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "add-expense")
	userID := fs.Int64("user", 0, "User ID")
	amount := fs.String("amount", "", "Amount, e.g. 500 or 12,50")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	category := fs.String("category", "", "Category")
	description := fs.String("description", "", "Description (optional)")
	payment := fs.String("payment", "", "Payment method")
	credit := fs.Bool("credit", false, "Bought on credit")
	installments := fs.Int64("installments", 0, "Number of installments (credit only)")
	installmentAmount := fs.String("installment-amount", "", "Amount per installment (default amount/installments)")
	paid := fs.Bool("paid", false, "Already paid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	when, err := parseDate(*date)
	if err != nil {
		return err
	}
	var perInstallment float64
	if *installmentAmount != "" {
		perInstallment, err = core.ParseAmount(*installmentAmount)
		if err != nil {
			return fmt.Errorf("installment amount %q: %w", *installmentAmount, err)
		}
	}

	e := core.NewExpense{
		UserID:            *userID,
		Amount:            amt,
		Date:              when,
		Category:          *category,
		Description:       *description,
		PaymentMethod:     *payment,
		IsCredit:          *credit,
		IsPaid:            *paid,
		Installments:      *installments,
		InstallmentAmount: perInstallment,
	}
	id, err := a.entries.AddExpense(ctx, e)
	if err != nil {
		return fmt.Errorf("add expense: %w", err)
	}
	fmt.Fprintf(a.stdout, "Expense %d recorded: %.2f on %s\n", id, e.Amount, e.Date.Format(dateLayout))
	return nil
}

func runExpenses(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "expenses")
	userID := fs.Int64("user", 0, "User ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("missing required flags: user")
	}

	expenses, err := a.expenses.GetExpensesByUser(ctx, *userID)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	if len(expenses) == 0 {
		fmt.Fprintln(a.stdout, "No expenses")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tPAYMENT\tCREDIT\tPAID\tDESCRIPTION")
	for _, e := range expenses {
		credit := "no"
		if e.IsCredit {
			credit = fmt.Sprintf("%dx%.2f", e.Installments, e.InstallmentAmount)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(dateLayout), e.Amount, e.Category, e.PaymentMethod,
			credit, yesNo(e.IsPaid), e.Description)
	}
	return tw.Flush()
}

func runExpense(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "expense")
	id := fs.Int64("id", 0, "Expense ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flags: id")
	}

	e, found, err := a.expenses.GetExpenseByID(ctx, *id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if !found {
		return fmt.Errorf("expense %d not found", *id)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", e.ID)
	fmt.Fprintf(tw, "User\t%d\n", e.UserID)
	fmt.Fprintf(tw, "Date\t%s\n", e.Date.Format(dateLayout))
	fmt.Fprintf(tw, "Amount\t%.2f\n", e.Amount)
	fmt.Fprintf(tw, "Category\t%s\n", e.Category)
	fmt.Fprintf(tw, "Description\t%s\n", e.Description)
	fmt.Fprintf(tw, "Payment\t%s\n", e.PaymentMethod)
	if e.IsCredit {
		fmt.Fprintf(tw, "Credit\t%d x %.2f\n", e.Installments, e.InstallmentAmount)
	} else {
		fmt.Fprintln(tw, "Credit\tno")
	}
	fmt.Fprintf(tw, "Paid\t%s\n", yesNo(e.IsPaid))
	return tw.Flush()
}

func runSummary(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "summary")
	userID := fs.Int64("user", 0, "User ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("missing required flags: user")
	}

	s, err := a.calculator.Summarize(ctx, *userID)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Income\t%.2f\t\n", s.TotalIncome)
	fmt.Fprintf(tw, "Expenses\t%.2f\t\n", s.TotalExpenses)
	fmt.Fprintf(tw, "Paid\t%.2f\t\n", s.PaidExpenses)
	fmt.Fprintf(tw, "Unpaid\t%.2f\t\n", s.UnpaidExpenses)
	fmt.Fprintf(tw, "Balance\t%.2f\t\n", s.Balance)
	fmt.Fprintf(tw, "Savings\t%.2f\t\n", s.Savings)
	return tw.Flush()
}

func runWatch(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet(a, "watch").Parse(args); err != nil {
		return err
	}
	if a.amqp == nil {
		return fmt.Errorf("watch needs GASTOS_AMQP_URL to be set")
	}

	ctx, stop := cli.SignalContext(ctx, a.logger.WithComponent(log.ComponentWatch))
	defer stop()

	err := a.amqp.ConsumeEntryRecorded(ctx, func(msg *amqp.EntryRecordedMessage) error {
		s, err := a.calculator.Summarize(ctx, msg.UserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s %d for user %d: %.2f (balance %.2f, savings %.2f)\n",
			msg.Kind, msg.EntryID, msg.UserID, msg.Amount, s.Balance, s.Savings)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func parseNewIncome(userID int64, amount, date string) (core.NewIncome, error) {
	amt, err := core.ParseAmount(amount)
	if err != nil {
		return core.NewIncome{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	when, err := parseDate(date)
	if err != nil {
		return core.NewIncome{}, err
	}
	return core.NewIncome{UserID: userID, Amount: amt, Date: when}, nil
}

// parseDate reads a YYYY-MM-DD or RFC 3339 date. Empty means today.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, core.ErrInvalidDate)
	}
	return t, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
