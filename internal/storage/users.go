package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gastos/internal/core"
	"gastos/internal/log"
)

// UserRepository translates between the users table and core.User.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID   int64
	Name string
}

func (r userRow) toDomain() core.User {
	return core.User{ID: r.ID, Name: r.Name}
}

// AddUser registers a user and returns the id assigned by storage.
func (r *UserRepository) AddUser(ctx context.Context, u core.NewUser) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO users (name) VALUES (?)",
		strings.TrimSpace(u.Name),
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldUserID, id)
	return id, nil
}

// GetUserByID returns the user with the given id. found is false, with a nil
// error, when no such user exists.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (user core.User, found bool, err error) {
	var row userRow
	err = r.db.conn.QueryRowContext(ctx,
		"SELECT id, name FROM users WHERE id = ?",
		id,
	).Scan(&row.ID, &row.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, false, nil
	}
	if err != nil {
		return core.User{}, false, fmt.Errorf("get user by id: %w", err)
	}
	return row.toDomain(), true, nil
}

// ListUsers returns every registered user ordered by id.
func (r *UserRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT id, name FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []core.User{}
	for rows.Next() {
		var row userRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
