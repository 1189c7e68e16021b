package core

import (
	"testing"
	"time"
)

var oct1 = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

func TestSummarizeUnpaidExpense(t *testing.T) {
	incomes := []Income{{ID: 1, UserID: 1, Amount: 1000, Date: oct1}}
	expenses := []Expense{{ID: 1, UserID: 1, Amount: 500, Date: oct1, IsPaid: false}}

	s := Summarize(1, incomes, expenses)
	if s.Balance != 500 {
		t.Fatalf("balance: expected 500, got %v", s.Balance)
	}
	if s.Savings != 1000 {
		t.Fatalf("savings: expected 1000, got %v", s.Savings)
	}
	if s.UnpaidExpenses != 500 || s.PaidExpenses != 0 {
		t.Fatalf("unexpected paid/unpaid split: %+v", s)
	}
}

func TestSummarizePaidExpense(t *testing.T) {
	incomes := []Income{{ID: 1, UserID: 1, Amount: 1000, Date: oct1}}
	expenses := []Expense{{ID: 1, UserID: 1, Amount: 500, Date: oct1, IsPaid: true}}

	if got := Balance(incomes, expenses); got != 500 {
		t.Fatalf("balance: expected 500, got %v", got)
	}
	if got := Savings(incomes, expenses); got != 500 {
		t.Fatalf("savings: expected 500, got %v", got)
	}
}

func TestSummarizeEmptySides(t *testing.T) {
	if got := Balance(nil, nil); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Balance([]Income{{Amount: 250}}, nil); got != 250 {
		t.Fatalf("expected 250, got %v", got)
	}
	if got := Balance(nil, []Expense{{Amount: 40}}); got != -40 {
		t.Fatalf("expected -40, got %v", got)
	}
}

func TestSavingsEqualsBalancePlusUnpaid(t *testing.T) {
	incomes := []Income{{Amount: 0.1}, {Amount: 0.2}, {Amount: 1200}}
	expenses := []Expense{
		{Amount: 19.99, IsPaid: true},
		{Amount: 80.01, IsPaid: false},
		{Amount: 0.3, IsPaid: false},
	}
	s := Summarize(7, incomes, expenses)
	if s.TotalIncome != 1200.3 {
		t.Fatalf("expected exact income total 1200.3, got %v", s.TotalIncome)
	}
	if s.Savings != 1180.31 {
		t.Fatalf("expected savings 1180.31, got %v", s.Savings)
	}
	if s.Balance != 1100 {
		t.Fatalf("expected balance 1100, got %v", s.Balance)
	}
	if s.Savings <= s.Balance {
		t.Fatalf("savings %v should exceed balance %v when expenses are unpaid", s.Savings, s.Balance)
	}
}

func TestSummarizeIncomeTotalIsExact(t *testing.T) {
	s := Summarize(1, []Income{{Amount: 0.1}, {Amount: 0.2}}, nil)
	if s.TotalIncome != 0.3 {
		t.Fatalf("expected income total 0.3, got %v", s.TotalIncome)
	}
	if s.Balance != 0.3 || s.Savings != 0.3 {
		t.Fatalf("expected balance and savings 0.3, got %+v", s)
	}
}
