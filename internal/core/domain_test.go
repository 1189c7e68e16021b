package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewUserValidate(t *testing.T) {
	if err := (NewUser{Name: "John Doe"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, name := range []string{"", "   ", "\t\n"} {
		if err := (NewUser{Name: name}).Validate(); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("%q expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestNewIncomeValidate(t *testing.T) {
	day := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   NewIncome
		want error
	}{
		{NewIncome{UserID: 1, Amount: 1000, Date: day}, nil},
		{NewIncome{UserID: 1, Amount: 0, Date: day}, nil},
		{NewIncome{UserID: 0, Amount: 10, Date: day}, ErrInvalidUserID},
		{NewIncome{UserID: 1, Amount: -1, Date: day}, ErrInvalidAmount},
		{NewIncome{UserID: 1, Amount: math.NaN(), Date: day}, ErrInvalidAmount},
		{NewIncome{UserID: 1, Amount: 10}, ErrInvalidDate},
	}
	for i, tc := range cases {
		err := tc.in.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestNewExpenseValidate(t *testing.T) {
	good := NewExpense{
		UserID:        1,
		Amount:        500,
		Date:          time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		Category:      "Food",
		PaymentMethod: "Cash",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	mutate := func(f func(*NewExpense)) NewExpense {
		e := good
		f(&e)
		return e
	}
	bads := []struct {
		e    NewExpense
		want error
	}{
		{mutate(func(e *NewExpense) { e.UserID = -3 }), ErrInvalidUserID},
		{mutate(func(e *NewExpense) { e.Amount = math.Inf(1) }), ErrInvalidAmount},
		{mutate(func(e *NewExpense) { e.Date = time.Time{} }), ErrInvalidDate},
		{mutate(func(e *NewExpense) { e.Category = " " }), ErrEmptyCategory},
		{mutate(func(e *NewExpense) { e.PaymentMethod = "" }), ErrEmptyPaymentMethod},
		{mutate(func(e *NewExpense) { e.Installments = -1 }), ErrInvalidInstallments},
		{mutate(func(e *NewExpense) { e.InstallmentAmount = -0.5 }), ErrInvalidInstallments},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestWithDerivedInstallment(t *testing.T) {
	e := NewExpense{Amount: 500, IsCredit: true, Installments: 3}.WithDerivedInstallment()
	if e.InstallmentAmount != 166.67 {
		t.Fatalf("expected 166.67, got %v", e.InstallmentAmount)
	}

	// An explicit installment amount is kept.
	e = NewExpense{Amount: 500, IsCredit: true, Installments: 3, InstallmentAmount: 170}.WithDerivedInstallment()
	if e.InstallmentAmount != 170 {
		t.Fatalf("expected 170, got %v", e.InstallmentAmount)
	}

	// Cash purchases are left alone.
	e = NewExpense{Amount: 500, Installments: 3}.WithDerivedInstallment()
	if e.InstallmentAmount != 0 {
		t.Fatalf("expected 0, got %v", e.InstallmentAmount)
	}
}
