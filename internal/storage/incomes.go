package storage

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/log"
)

// IncomeRepository translates between the incomes table and core.Income.
type IncomeRepository struct {
	db *DB
}

func NewIncomeRepository(db *DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// incomeRow is the storage shape of an income: the date is ISO-8601 text.
type incomeRow struct {
	ID     int64
	UserID int64
	Amount float64
	Date   string
}

func (r incomeRow) toDomain() (core.Income, error) {
	date, err := parseTimestamp(r.Date)
	if err != nil {
		return core.Income{}, fmt.Errorf("income %d: %w", r.ID, err)
	}
	return core.Income{
		ID:     r.ID,
		UserID: r.UserID,
		Amount: r.Amount,
		Date:   date,
	}, nil
}

// AddIncome records an income and returns its id. A user id that does not
// exist fails with core.ErrUserNotFound.
func (r *IncomeRepository) AddIncome(ctx context.Context, in core.NewIncome) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO incomes (userId, amount, date) VALUES (?, ?, ?)",
		in.UserID, in.Amount, formatTimestamp(in.Date),
	)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", mapWriteError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldEntryID, id,
		log.FieldUserID, in.UserID,
		"amount", in.Amount)

	return id, nil
}

// GetIncomesByUser returns the user's incomes in insertion order. A user with
// no incomes gets an empty slice.
func (r *IncomeRepository) GetIncomesByUser(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT id, userId, amount, date FROM incomes WHERE userId = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get incomes by user: %w", err)
	}
	defer rows.Close()

	incomes := []core.Income{}
	for rows.Next() {
		var row incomeRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Amount, &row.Date); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		income, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get incomes by user: %w", err)
	}
	return incomes, nil
}
