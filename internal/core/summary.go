package core

// Summary holds the derived figures for one user.
type Summary struct {
	UserID         int64
	TotalIncome    float64
	TotalExpenses  float64
	PaidExpenses   float64
	UnpaidExpenses float64
	Balance        float64 // income minus every expense
	Savings        float64 // income minus paid expenses only
}

// Summarize reduces a user's incomes and expenses into a Summary.
func Summarize(userID int64, incomes []Income, expenses []Expense) Summary {
	incomeAmounts := make([]float64, 0, len(incomes))
	for _, in := range incomes {
		incomeAmounts = append(incomeAmounts, in.Amount)
	}
	incomeTotal := sumAmounts(incomeAmounts...)

	paid := make([]float64, 0, len(expenses))
	unpaid := make([]float64, 0, len(expenses))
	for _, e := range expenses {
		if e.IsPaid {
			paid = append(paid, e.Amount)
		} else {
			unpaid = append(unpaid, e.Amount)
		}
	}
	paidTotal := sumAmounts(paid...)
	unpaidTotal := sumAmounts(unpaid...)
	expenseTotal := paidTotal.Add(unpaidTotal)

	return Summary{
		UserID:         userID,
		TotalIncome:    incomeTotal.InexactFloat64(),
		TotalExpenses:  expenseTotal.InexactFloat64(),
		PaidExpenses:   paidTotal.InexactFloat64(),
		UnpaidExpenses: unpaidTotal.InexactFloat64(),
		Balance:        incomeTotal.Sub(expenseTotal).InexactFloat64(),
		Savings:        incomeTotal.Sub(paidTotal).InexactFloat64(),
	}
}

// Balance is the total income minus the total expense amount, paid or not.
func Balance(incomes []Income, expenses []Expense) float64 {
	return Summarize(0, incomes, expenses).Balance
}

// Savings is the total income minus the amount of paid expenses.
func Savings(incomes []Income, expenses []Expense) float64 {
	return Summarize(0, incomes, expenses).Savings
}
