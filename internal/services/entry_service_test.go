package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/amqp"
	"gastos/internal/core"
)

type recordingWriter struct {
	nextID   int64
	err      error
	incomes  []core.NewIncome
	expenses []core.NewExpense
}

func (w *recordingWriter) AddIncome(_ context.Context, in core.NewIncome) (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.incomes = append(w.incomes, in)
	w.nextID++
	return w.nextID, nil
}

func (w *recordingWriter) AddExpense(_ context.Context, e core.NewExpense) (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.expenses = append(w.expenses, e)
	w.nextID++
	return w.nextID, nil
}

type recordingNotifier struct {
	err  error
	msgs []*amqp.EntryRecordedMessage
}

func (n *recordingNotifier) PublishEntryRecorded(_ context.Context, msg *amqp.EntryRecordedMessage) error {
	n.msgs = append(n.msgs, msg)
	return n.err
}

var entryDate = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

func TestEntryServiceAddIncomePublishes(t *testing.T) {
	w := &recordingWriter{}
	n := &recordingNotifier{}
	svc := NewEntryService(w, w, n)

	id, err := svc.AddIncome(context.Background(), core.NewIncome{UserID: 1, Amount: 1000, Date: entryDate})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, n.msgs, 1)
	assert.Equal(t, amqp.KindIncome, n.msgs[0].Kind)
	assert.Equal(t, id, n.msgs[0].EntryID)
	assert.Equal(t, int64(1), n.msgs[0].UserID)
	assert.Equal(t, 1000.0, n.msgs[0].Amount)
}

func TestEntryServiceAddExpenseDerivesInstallment(t *testing.T) {
	w := &recordingWriter{}
	n := &recordingNotifier{}
	svc := NewEntryService(w, w, n)

	_, err := svc.AddExpense(context.Background(), core.NewExpense{
		UserID: 1, Amount: 500, Date: entryDate, Category: "Electronics",
		PaymentMethod: "Credit Card", IsCredit: true, Installments: 3,
	})
	require.NoError(t, err)

	require.Len(t, w.expenses, 1)
	assert.Equal(t, 166.67, w.expenses[0].InstallmentAmount)
	require.Len(t, n.msgs, 1)
	assert.Equal(t, amqp.KindExpense, n.msgs[0].Kind)
}

func TestEntryServiceKeepsExplicitInstallment(t *testing.T) {
	w := &recordingWriter{}
	svc := NewEntryService(w, w, nil)

	_, err := svc.AddExpense(context.Background(), core.NewExpense{
		UserID: 1, Amount: 500, Date: entryDate, Category: "Electronics",
		PaymentMethod: "Credit Card", IsCredit: true, Installments: 3, InstallmentAmount: 170,
	})
	require.NoError(t, err)
	assert.Equal(t, 170.0, w.expenses[0].InstallmentAmount)
}

func TestEntryServiceNotifierFailureDoesNotFailWrite(t *testing.T) {
	w := &recordingWriter{}
	n := &recordingNotifier{err: errors.New("channel closed")}
	svc := NewEntryService(w, w, n)

	id, err := svc.AddIncome(context.Background(), core.NewIncome{UserID: 1, Amount: 10, Date: entryDate})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, w.incomes, 1)
}

func TestEntryServiceWriteFailureSkipsNotification(t *testing.T) {
	boom := core.ErrUserNotFound
	w := &recordingWriter{err: boom}
	n := &recordingNotifier{}
	svc := NewEntryService(w, w, n)

	_, err := svc.AddExpense(context.Background(), core.NewExpense{
		UserID: 7, Amount: 5, Date: entryDate, Category: "Food", PaymentMethod: "Cash",
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "save expense")
	assert.Empty(t, n.msgs)
}
