package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if _, err := repo.CreateUser(context.Background(), "alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewService(repo, nil)
}

func mustAddExpense(t *testing.T, svc *Service, e core.Expense) int64 {
	t.Helper()
	id, err := svc.AddExpense(context.Background(), "alice", e)
	if err != nil {
		t.Fatalf("AddExpense(%q): %v", e.Name, err)
	}
	return id
}

func mustAddSpending(t *testing.T, svc *Service, sp core.Spending) {
	t.Helper()
	if _, err := svc.AddSpending(context.Background(), "alice", sp); err != nil {
		t.Fatalf("AddSpending(%q): %v", sp.Name, err)
	}
}

func TestMonthlyEmptyMonth(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.Monthly(context.Background(), "alice", 2024, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 0 {
		t.Errorf("expenses = %+v, want none", view.Expenses)
	}
	if view.ExpenseTotal.Cents != 0 || view.SpendingTotal.Cents != 0 {
		t.Errorf("totals = %d/%d, want 0/0", view.ExpenseTotal.Cents, view.SpendingTotal.Cents)
	}
}

func TestMonthlyProjectsRepeatingExpense(t *testing.T) {
	svc := newTestService(t)

	mustAddExpense(t, svc, core.Expense{
		Name:     "Rent",
		Expected: core.Money{Cents: 120000},
		DueDate:  core.NewDate(2024, 1, 1),
		Repeat:   core.RepeatMonthly,
	})

	view, err := svc.Monthly(context.Background(), "alice", 2024, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 1 {
		t.Fatalf("expenses = %+v, want one row", view.Expenses)
	}

	row := view.Expenses[0]
	if got := row.Expense.DueDate.String(); got != "2024-03-01" {
		t.Errorf("projected due date = %s, want 2024-03-01", got)
	}
	if row.LinkedTotal.Cents != 0 || len(row.Linked) != 0 {
		t.Errorf("no spending recorded yet, got subtotal %d with %d rows", row.LinkedTotal.Cents, len(row.Linked))
	}
	// Rent is due in January, so March's expense total stays zero.
	if view.ExpenseTotal.Cents != 0 {
		t.Errorf("expense total = %d, want 0", view.ExpenseTotal.Cents)
	}
}

func TestMonthlyLinksSpendingByName(t *testing.T) {
	svc := newTestService(t)

	mustAddExpense(t, svc, core.Expense{
		Name:     "Rent",
		Expected: core.Money{Cents: 120000},
		DueDate:  core.NewDate(2024, 1, 1),
		Repeat:   core.RepeatMonthly,
	})
	mustAddSpending(t, svc, core.Spending{
		Name:        "Payment",
		Amount:      core.Money{Cents: 120000},
		Date:        core.NewDate(2024, 3, 5),
		Category:    "bills",
		ExpenseName: "Rent",
	})
	// Unlinked spending counts toward nothing here.
	mustAddSpending(t, svc, core.Spending{
		Name:     "Groceries",
		Amount:   core.Money{Cents: 8000},
		Date:     core.NewDate(2024, 3, 10),
		Category: "food",
	})

	view, err := svc.Monthly(context.Background(), "alice", 2024, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 1 {
		t.Fatalf("expenses = %+v, want one row", view.Expenses)
	}

	row := view.Expenses[0]
	if row.LinkedTotal.Cents != 120000 {
		t.Errorf("linked total = %d, want 120000", row.LinkedTotal.Cents)
	}
	if len(row.Linked) != 1 || row.Linked[0].Name != "Payment" {
		t.Errorf("linked rows = %+v", row.Linked)
	}
	if view.SpendingTotal.Cents != 120000 {
		t.Errorf("spending total = %d, want 120000", view.SpendingTotal.Cents)
	}
}

func TestMonthlyDecemberRepeatViewedInJanuary(t *testing.T) {
	svc := newTestService(t)

	mustAddExpense(t, svc, core.Expense{
		Name:     "Hosting",
		Expected: core.Money{Cents: 1500},
		DueDate:  core.NewDate(2024, 12, 31),
		Repeat:   core.RepeatMonthly,
	})

	view, err := svc.Monthly(context.Background(), "alice", 2025, 1)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 1 {
		t.Fatalf("expenses = %+v, want one row", view.Expenses)
	}
	if got := view.Expenses[0].Expense.DueDate.String(); got != "2025-01-31" {
		t.Errorf("projected due date = %s, want 2025-01-31", got)
	}
}

func TestMonthlyClampsDayOnShortMonth(t *testing.T) {
	svc := newTestService(t)

	mustAddExpense(t, svc, core.Expense{
		Name:     "Insurance",
		Expected: core.Money{Cents: 4500},
		DueDate:  core.NewDate(2024, 1, 31),
		Repeat:   core.RepeatMonthly,
	})

	view, err := svc.Monthly(context.Background(), "alice", 2023, 2)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 1 {
		t.Fatalf("expenses = %+v, want one row", view.Expenses)
	}
	if got := view.Expenses[0].Expense.DueDate.String(); got != "2023-02-28" {
		t.Errorf("projected due date = %s, want 2023-02-28", got)
	}
}

func TestMonthlySortsAfterProjection(t *testing.T) {
	svc := newTestService(t)

	// Stored due dates would order Rent (Jan) before Internet (Mar 10),
	// but after projection Rent lands on Mar 20 and must sort second.
	mustAddExpense(t, svc, core.Expense{
		Name:     "Rent",
		Expected: core.Money{Cents: 120000},
		DueDate:  core.NewDate(2024, 1, 20),
		Repeat:   core.RepeatMonthly,
	})
	mustAddExpense(t, svc, core.Expense{
		Name:     "Internet",
		Expected: core.Money{Cents: 3000},
		DueDate:  core.NewDate(2024, 3, 10),
	})

	view, err := svc.Monthly(context.Background(), "alice", 2024, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(view.Expenses) != 2 {
		t.Fatalf("expenses = %+v, want two rows", view.Expenses)
	}
	if view.Expenses[0].Expense.Name != "Internet" || view.Expenses[1].Expense.Name != "Rent" {
		t.Errorf("order = %s, %s; want Internet, Rent",
			view.Expenses[0].Expense.Name, view.Expenses[1].Expense.Name)
	}
}

func TestMonthlyRejectsBadMonth(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Monthly(context.Background(), "alice", 2024, 13); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("month 13 = %v, want validation error", err)
	}
	if _, err := svc.Monthly(context.Background(), "alice", 2024, -1); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("month -1 = %v, want validation error", err)
	}
}

func TestMonthlyDefaultsToCurrentMonth(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.Monthly(context.Background(), "alice", 0, 0)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	today := core.Today()
	if view.Year != today.Year() || view.Month != today.Month() {
		t.Errorf("defaulted to %d-%d, want %d-%d", view.Year, view.Month, today.Year(), today.Month())
	}
}

func TestMonthlyUnknownUser(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Monthly(context.Background(), "ghost", 2024, 3); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("unknown user = %v, want user-not-found error", err)
	}
}
