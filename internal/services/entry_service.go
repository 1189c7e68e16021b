package services

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/log"
)

type IncomeWriter interface {
	AddIncome(ctx context.Context, in core.NewIncome) (int64, error)
}

type ExpenseWriter interface {
	AddExpense(ctx context.Context, e core.NewExpense) (int64, error)
}

// Notifier announces entries after they are stored.
type Notifier interface {
	PublishEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error
}

// EntryService records incomes and expenses in SQLite and then announces them
// on the change feed. The database is the source of truth: a failed
// notification never fails the write.
type EntryService struct {
	incomes  IncomeWriter
	expenses ExpenseWriter
	notifier Notifier
}

// NewEntryService wires the writers. notifier may be nil when no broker is configured.
func NewEntryService(incomes IncomeWriter, expenses ExpenseWriter, notifier Notifier) *EntryService {
	return &EntryService{
		incomes:  incomes,
		expenses: expenses,
		notifier: notifier,
	}
}

// AddIncome saves an income locally and publishes an entry-recorded message.
func (s *EntryService) AddIncome(ctx context.Context, in core.NewIncome) (int64, error) {
	id, err := s.incomes.AddIncome(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}

	s.notify(ctx, amqp.NewEntryRecordedMessage(amqp.KindIncome, id, in.UserID, in.Amount))
	return id, nil
}

// AddExpense saves an expense locally and publishes an entry-recorded message.
// Credit purchases without an installment amount get one derived from the total.
func (s *EntryService) AddExpense(ctx context.Context, e core.NewExpense) (int64, error) {
	e = e.WithDerivedInstallment()

	id, err := s.expenses.AddExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.notify(ctx, amqp.NewEntryRecordedMessage(amqp.KindExpense, id, e.UserID, e.Amount))
	return id, nil
}

func (s *EntryService) notify(ctx context.Context, msg *amqp.EntryRecordedMessage) {
	if s.notifier == nil {
		slog.DebugContext(ctx, "Notifier not configured, skipping entry recorded message",
			log.FieldKind, msg.Kind, log.FieldEntryID, msg.EntryID)
		return
	}

	if err := s.notifier.PublishEntryRecorded(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry recorded message",
			log.FieldKind, msg.Kind, log.FieldEntryID, msg.EntryID, log.FieldError, err)
	}
}
