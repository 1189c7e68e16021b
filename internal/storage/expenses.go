package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/log"
)

const expenseColumns = `id, userId, amount, date, category, description, paymentMethod,
	isCredit, installments, installmentAmount, isPaid`

// ExpenseRepository translates between the expenses table and core.Expense.
type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// expenseRow is the storage shape of an expense: text date, 0/1 flags and
// nullable optional columns.
type expenseRow struct {
	ID                int64
	UserID            int64
	Amount            float64
	Date              string
	Category          string
	Description       sql.NullString
	PaymentMethod     string
	IsCredit          int64
	Installments      sql.NullInt64
	InstallmentAmount sql.NullFloat64
	IsPaid            int64
}

func (r *expenseRow) scanTargets() []any {
	return []any{
		&r.ID, &r.UserID, &r.Amount, &r.Date, &r.Category, &r.Description,
		&r.PaymentMethod, &r.IsCredit, &r.Installments, &r.InstallmentAmount, &r.IsPaid,
	}
}

func (r expenseRow) toDomain() (core.Expense, error) {
	date, err := parseTimestamp(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", r.ID, err)
	}
	return core.Expense{
		ID:                r.ID,
		UserID:            r.UserID,
		Amount:            r.Amount,
		Date:              date,
		Category:          r.Category,
		Description:       r.Description.String,
		PaymentMethod:     r.PaymentMethod,
		IsCredit:          intToBool(r.IsCredit),
		Installments:      r.Installments.Int64,
		InstallmentAmount: r.InstallmentAmount.Float64,
		IsPaid:            intToBool(r.IsPaid),
	}, nil
}

// AddExpense records an expense and returns its id. Flags are stored as 0/1
// and the optional columns as '' and 0 when not set.
func (r *ExpenseRepository) AddExpense(ctx context.Context, e core.NewExpense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO expenses (
			userId, amount, date, category, description, paymentMethod,
			isCredit, installments, installmentAmount, isPaid
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID,
		e.Amount,
		formatTimestamp(e.Date),
		e.Category,
		e.Description,
		e.PaymentMethod,
		boolToInt(e.IsCredit),
		e.Installments,
		e.InstallmentAmount,
		boolToInt(e.IsPaid),
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", mapWriteError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldEntryID, id,
		log.FieldUserID, e.UserID,
		"amount", e.Amount,
		"category", e.Category,
		"is_paid", e.IsPaid)

	return id, nil
}

// GetExpensesByUser returns the user's expenses in insertion order. A user
// with no expenses gets an empty slice.
func (r *ExpenseRepository) GetExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE userId = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get expenses by user: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var row expenseRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expense, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get expenses by user: %w", err)
	}
	return expenses, nil
}

// GetExpenseByID loads a single expense; found is false when it does not exist.
func (r *ExpenseRepository) GetExpenseByID(ctx context.Context, id int64) (expense core.Expense, found bool, err error) {
	var row expenseRow
	err = r.db.conn.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		id,
	).Scan(row.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense by id: %w", err)
	}
	expense, err = row.toDomain()
	if err != nil {
		return core.Expense{}, false, err
	}
	return expense, true, nil
}
