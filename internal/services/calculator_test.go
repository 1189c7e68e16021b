package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
)

type fakeIncomes struct {
	byUser map[int64][]core.Income
	err    error
}

func (f *fakeIncomes) GetIncomesByUser(_ context.Context, userID int64) ([]core.Income, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakeExpenses struct {
	byUser map[int64][]core.Expense
	err    error
}

func (f *fakeExpenses) GetExpensesByUser(_ context.Context, userID int64) ([]core.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func TestCalculatorScenarios(t *testing.T) {
	ctx := context.Background()
	incomes := &fakeIncomes{byUser: map[int64][]core.Income{
		1: {{ID: 1, UserID: 1, Amount: 1000}},
	}}

	tests := []struct {
		name        string
		expenses    []core.Expense
		wantBalance float64
		wantSavings float64
	}{
		{
			name:        "unpaid expense",
			expenses:    []core.Expense{{ID: 1, UserID: 1, Amount: 500, IsPaid: false}},
			wantBalance: 500,
			wantSavings: 1000,
		},
		{
			name:        "paid expense",
			expenses:    []core.Expense{{ID: 1, UserID: 1, Amount: 500, IsPaid: true}},
			wantBalance: 500,
			wantSavings: 500,
		},
		{
			name:        "no expenses",
			wantBalance: 1000,
			wantSavings: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(incomes, &fakeExpenses{byUser: map[int64][]core.Expense{1: tt.expenses}})

			balance, err := calc.CalculateBalance(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)

			savings, err := calc.CalculateSavings(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSavings, savings)
		})
	}
}

func TestCalculatorUnknownUserIsZero(t *testing.T) {
	calc := NewCalculator(&fakeIncomes{}, &fakeExpenses{})

	balance, err := calc.CalculateBalance(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, balance)

	savings, err := calc.CalculateSavings(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, savings)
}

func TestCalculatorPropagatesReadErrors(t *testing.T) {
	boom := errors.New("disk I/O error")

	t.Run("incomes", func(t *testing.T) {
		calc := NewCalculator(&fakeIncomes{err: boom}, &fakeExpenses{})
		_, err := calc.CalculateBalance(context.Background(), 1)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "calculate balance")
		assert.Contains(t, err.Error(), "get incomes")
	})

	t.Run("expenses", func(t *testing.T) {
		calc := NewCalculator(&fakeIncomes{}, &fakeExpenses{err: boom})
		_, err := calc.CalculateSavings(context.Background(), 1)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "calculate savings")
		assert.Contains(t, err.Error(), "get expenses")
	})

	t.Run("summary", func(t *testing.T) {
		calc := NewCalculator(&fakeIncomes{err: boom}, &fakeExpenses{err: boom})
		s, err := calc.Summarize(context.Background(), 1)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, core.Summary{}, s)
	})
}

func TestCalculatorAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.InitDatabase(ctx, storage.Options{
		Environment: storage.Development,
		Path:        storage.MemoryPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := storage.NewUserRepository(db)
	incomes := storage.NewIncomeRepository(db)
	expenses := storage.NewExpenseRepository(db)

	uid, err := users.AddUser(ctx, core.NewUser{Name: "Maria"})
	require.NoError(t, err)
	other, err := users.AddUser(ctx, core.NewUser{Name: "João"})
	require.NoError(t, err)

	date := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err = incomes.AddIncome(ctx, core.NewIncome{UserID: uid, Amount: 0.1, Date: date})
	require.NoError(t, err)
	_, err = incomes.AddIncome(ctx, core.NewIncome{UserID: uid, Amount: 0.2, Date: date})
	require.NoError(t, err)
	_, err = incomes.AddIncome(ctx, core.NewIncome{UserID: other, Amount: 9999, Date: date})
	require.NoError(t, err)
	_, err = expenses.AddExpense(ctx, core.NewExpense{
		UserID: uid, Amount: 0.1, Date: date, Category: "Food", PaymentMethod: "Cash", IsPaid: true,
	})
	require.NoError(t, err)

	s, err := NewCalculator(incomes, expenses).Summarize(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, uid, s.UserID)
	assert.Equal(t, 0.3, s.TotalIncome)
	assert.Equal(t, 0.1, s.TotalExpenses)
	assert.Equal(t, 0.2, s.Balance)
	assert.Equal(t, 0.2, s.Savings)
}
