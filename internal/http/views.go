package http

import (
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// JSON shapes for responses. Amounts travel as integer cents, dates as
// YYYY-MM-DD strings.

type expenseJSON struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ExpectedCents int64  `json:"expected_cents"`
	DueDate       string `json:"due_date"`
	Repeat        string `json:"repeat_type"`
	Owner         string `json:"owner"`
}

type spendingJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Owner       string `json:"owner"`
	ExpenseName string `json:"expense_name,omitempty"`
}

type incomeJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Owner       string `json:"owner"`
}

type debtJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	TargetDate  string `json:"target_date"`
	Owner       string `json:"owner"`
}

type goalJSON struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TargetCents  int64  `json:"target_cents"`
	CurrentCents int64  `json:"current_cents"`
	TargetDate   string `json:"target_date"`
	Owner        string `json:"owner"`
}

type monthlyRowJSON struct {
	Expense          expenseJSON    `json:"expense"`
	LinkedTotalCents int64          `json:"linked_total_cents"`
	Linked           []spendingJSON `json:"linked"`
}

type monthlyViewJSON struct {
	Year               int              `json:"year"`
	Month              int              `json:"month"`
	Expenses           []monthlyRowJSON `json:"expenses"`
	ExpenseTotalCents  int64            `json:"expense_total_cents"`
	SpendingTotalCents int64            `json:"spending_total_cents"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:            e.ID,
		Name:          e.Name,
		ExpectedCents: e.Expected.Cents,
		DueDate:       e.DueDate.String(),
		Repeat:        string(e.Repeat),
		Owner:         e.Owner,
	}
}

func toSpendingJSON(sp core.Spending) spendingJSON {
	return spendingJSON{
		ID:          sp.ID,
		Name:        sp.Name,
		AmountCents: sp.Amount.Cents,
		Date:        sp.Date.String(),
		Category:    sp.Category,
		Owner:       sp.Owner,
		ExpenseName: sp.ExpenseName,
	}
}

func toMonthlyViewJSON(v ledger.MonthlyView) monthlyViewJSON {
	out := monthlyViewJSON{
		Year:               v.Year,
		Month:              v.Month,
		Expenses:           []monthlyRowJSON{},
		ExpenseTotalCents:  v.ExpenseTotal.Cents,
		SpendingTotalCents: v.SpendingTotal.Cents,
	}
	for _, row := range v.Expenses {
		linked := []spendingJSON{}
		for _, sp := range row.Linked {
			linked = append(linked, toSpendingJSON(sp))
		}
		out.Expenses = append(out.Expenses, monthlyRowJSON{
			Expense:          toExpenseJSON(row.Expense),
			LinkedTotalCents: row.LinkedTotal.Cents,
			Linked:           linked,
		})
	}
	return out
}
