package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

type (
	User struct {
		ID   int64
		Name string
	}

	Income struct {
		ID     int64
		UserID int64
		Amount float64
		Date   time.Time
	}

	Expense struct {
		ID                int64
		UserID            int64
		Amount            float64
		Date              time.Time
		Category          string
		Description       string // optional
		PaymentMethod     string
		IsCredit          bool
		Installments      int64   // meaningful only when IsCredit
		InstallmentAmount float64 // meaningful only when IsCredit
		IsPaid            bool
	}

	// NewUser carries the fields needed to register a user.
	NewUser struct {
		Name string
	}

	// NewIncome carries the fields needed to record an income.
	NewIncome struct {
		UserID int64
		Amount float64
		Date   time.Time
	}

	// NewExpense carries the fields needed to record an expense.
	NewExpense struct {
		UserID            int64
		Amount            float64
		Date              time.Time
		Category          string
		Description       string
		PaymentMethod     string
		IsCredit          bool
		Installments      int64
		InstallmentAmount float64
		IsPaid            bool
	}
)

var (
	ErrEmptyName           = errors.New("empty user name")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyPaymentMethod  = errors.New("empty payment method")
	ErrInvalidInstallments = errors.New("invalid installments")

	// ErrUserNotFound is returned when a write references a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
)

func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i NewIncome) Validate() error {
	if i.UserID <= 0 {
		return ErrInvalidUserID
	}
	if !isFinite(i.Amount) || i.Amount < 0 {
		return ErrInvalidAmount
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e NewExpense) Validate() error {
	if e.UserID <= 0 {
		return ErrInvalidUserID
	}
	if !isFinite(e.Amount) {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	if e.Installments < 0 {
		return ErrInvalidInstallments
	}
	if !isFinite(e.InstallmentAmount) || e.InstallmentAmount < 0 {
		return ErrInvalidInstallments
	}
	return nil
}

// WithDerivedInstallment fills InstallmentAmount from Amount/Installments for
// credit purchases that did not specify it.
func (e NewExpense) WithDerivedInstallment() NewExpense {
	if e.IsCredit && e.Installments > 0 && e.InstallmentAmount == 0 {
		e.InstallmentAmount = SplitInstallments(e.Amount, e.Installments)
	}
	return e
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
