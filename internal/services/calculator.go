package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gastos/internal/core"
)

// IncomeLister reads every income recorded for a user.
type IncomeLister interface {
	GetIncomesByUser(ctx context.Context, userID int64) ([]core.Income, error)
}

// ExpenseLister reads every expense recorded for a user.
type ExpenseLister interface {
	GetExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error)
}

// Calculator derives balance and savings from a user's full income and
// expense history. Nothing is cached: each call reads both tables again.
type Calculator struct {
	incomes  IncomeLister
	expenses ExpenseLister
}

func NewCalculator(incomes IncomeLister, expenses ExpenseLister) *Calculator {
	return &Calculator{
		incomes:  incomes,
		expenses: expenses,
	}
}

// CalculateBalance returns total income minus total expenses, paid or not.
func (c *Calculator) CalculateBalance(ctx context.Context, userID int64) (float64, error) {
	s, err := c.Summarize(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("calculate balance: %w", err)
	}
	return s.Balance, nil
}

// CalculateSavings returns total income minus the expenses marked as paid.
func (c *Calculator) CalculateSavings(ctx context.Context, userID int64) (float64, error) {
	s, err := c.Summarize(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("calculate savings: %w", err)
	}
	return s.Savings, nil
}

// Summarize returns every derived figure from a single read of both tables.
// A failure on either read fails the whole call; there is no partial result.
func (c *Calculator) Summarize(ctx context.Context, userID int64) (core.Summary, error) {
	var (
		incomes  []core.Income
		expenses []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = c.incomes.GetIncomesByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("get incomes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = c.expenses.GetExpensesByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("get expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, err
	}

	return core.Summarize(userID, incomes, expenses), nil
}
