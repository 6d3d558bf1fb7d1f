package storage

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

func insertTestExpense(t *testing.T, repo *SQLiteRepository, userID int64, name string, cents int64, due core.Date, repeat core.RepeatType) int64 {
	t.Helper()
	id, err := repo.InsertExpense(context.Background(), userID, core.Expense{
		Name:     name,
		Expected: core.Money{Cents: cents},
		DueDate:  due,
		Repeat:   repeat,
	})
	if err != nil {
		t.Fatalf("insert expense %q: %v", name, err)
	}
	return id
}

func insertTestSpending(t *testing.T, repo *SQLiteRepository, userID int64, s core.Spending) int64 {
	t.Helper()
	id, err := repo.InsertSpending(context.Background(), userID, s)
	if err != nil {
		t.Fatalf("insert spending %q: %v", s.Name, err)
	}
	return id
}

func TestListExpensesForViewUnion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")
	otherID := createTestUser(t, repo, "bob")

	start, end := core.MonthWindow(2024, 3)

	insertTestExpense(t, repo, userID, "Rent", 120000, core.NewDate(2024, 1, 1), core.RepeatMonthly)
	insertTestExpense(t, repo, userID, "Internet", 3000, core.NewDate(2024, 3, 15), core.RepeatNone)
	insertTestExpense(t, repo, userID, "Car tax", 25000, core.NewDate(2024, 6, 10), core.RepeatNone)
	// Another user's monthly repeat must stay invisible.
	insertTestExpense(t, repo, otherID, "Gym", 5000, core.NewDate(2024, 1, 5), core.RepeatMonthly)

	got, err := repo.ListExpensesForView(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("ListExpensesForView: %v", err)
	}

	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Name
	}
	// Rent comes first on stored due date; Car tax is outside the window
	// and not repeating, so only two rows.
	want := []string{"Rent", "Internet"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestSumExpectedExcludesPulledInRepeats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")

	insertTestExpense(t, repo, userID, "Rent", 120000, core.NewDate(2024, 1, 1), core.RepeatMonthly)
	insertTestExpense(t, repo, userID, "Internet", 3000, core.NewDate(2024, 3, 15), core.RepeatNone)

	start, end := core.MonthWindow(2024, 3)
	total, err := repo.SumExpectedInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("SumExpectedInWindow: %v", err)
	}
	// Rent is due in January; only Internet counts for March.
	if total != 3000 {
		t.Errorf("total = %d, want 3000", total)
	}
}

func TestExpenseNameInWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")

	insertTestExpense(t, repo, userID, "Rent", 120000, core.NewDate(2024, 3, 1), core.RepeatNone)

	start, end := core.MonthWindow(2024, 3)
	found, err := repo.ExpenseNameInWindow(ctx, userID, "Rent", start, end)
	if err != nil {
		t.Fatalf("ExpenseNameInWindow: %v", err)
	}
	if !found {
		t.Error("existing name not found")
	}

	nextStart, nextEnd := core.MonthWindow(2024, 4)
	found, err = repo.ExpenseNameInWindow(ctx, userID, "Rent", nextStart, nextEnd)
	if err != nil {
		t.Fatalf("ExpenseNameInWindow: %v", err)
	}
	if found {
		t.Error("name reported in a month it is not due")
	}
}

func TestSpendingQueriesAndSums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")

	insertTestSpending(t, repo, userID, core.Spending{
		Name: "Payment", Amount: core.Money{Cents: 120000},
		Date: core.NewDate(2024, 3, 5), Category: "bills", ExpenseName: "Rent",
	})
	insertTestSpending(t, repo, userID, core.Spending{
		Name: "Groceries", Amount: core.Money{Cents: 8000},
		Date: core.NewDate(2024, 3, 20), Category: "food",
	})
	insertTestSpending(t, repo, userID, core.Spending{
		Name: "Old payment", Amount: core.Money{Cents: 99900},
		Date: core.NewDate(2024, 2, 5), Category: "bills", ExpenseName: "Rent",
	})

	start, end := core.MonthWindow(2024, 3)

	all, err := repo.ListSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("ListSpendingInWindow: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Groceries" || all[1].Name != "Payment" {
		t.Errorf("window rows out of order: %+v", all)
	}

	linked, err := repo.ListLinkedSpending(ctx, userID, "Rent", start, end)
	if err != nil {
		t.Fatalf("ListLinkedSpending: %v", err)
	}
	if len(linked) != 1 || linked[0].Name != "Payment" {
		t.Errorf("linked rows: %+v", linked)
	}

	total, err := repo.SumSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("SumSpendingInWindow: %v", err)
	}
	if total != 128000 {
		t.Errorf("spending total = %d, want 128000", total)
	}

	linkedTotal, err := repo.SumLinkedSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("SumLinkedSpendingInWindow: %v", err)
	}
	if linkedTotal != 120000 {
		t.Errorf("linked total = %d, want 120000", linkedTotal)
	}
}

func TestDeleteRecordScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	aliceID := createTestUser(t, repo, "alice")
	bobID := createTestUser(t, repo, "bob")

	expenseID := insertTestExpense(t, repo, aliceID, "Rent", 120000, core.NewDate(2024, 3, 1), core.RepeatNone)

	// Bob cannot touch Alice's row.
	n, err := repo.DeleteRecord(ctx, bobID, TableExpenses, expenseID)
	if err != nil {
		t.Fatalf("DeleteRecord as other user: %v", err)
	}
	if n != 0 {
		t.Errorf("affected = %d, want 0", n)
	}

	n, err = repo.DeleteRecord(ctx, aliceID, TableExpenses, expenseID)
	if err != nil {
		t.Fatalf("DeleteRecord as owner: %v", err)
	}
	if n != 1 {
		t.Errorf("affected = %d, want 1", n)
	}
}

func TestDeleteRecordUnknownTable(t *testing.T) {
	repo := newTestRepo(t)
	userID := createTestUser(t, repo, "alice")

	_, err := repo.DeleteRecord(context.Background(), userID, "users", 1)
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("DeleteRecord(users) = %v, want ErrUnknownTable", err)
	}
}

func TestInsertBatchRollsBackOnBadRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")

	rows := [][]any{
		{"Salary", int64(250000), "2024-03-01", "salary", "Alice", userID},
		// NULL name violates NOT NULL and must void the whole batch.
		{nil, int64(1000), "2024-03-02", "other", "Alice", userID},
	}
	if err := repo.InsertBatch(ctx, TableIncome, rows); err == nil {
		t.Fatal("batch with bad row accepted")
	}

	start, end := core.MonthWindow(2024, 3)
	got, err := repo.ListIncomeInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("ListIncomeInWindow: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("partial batch landed: %+v", got)
	}
}

func TestInsertBatchUnknownTable(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.InsertBatch(context.Background(), "users", [][]any{{"x"}})
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("InsertBatch(users) = %v, want ErrUnknownTable", err)
	}
}

func TestGoalAndDebtSums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, repo, "alice")

	if _, err := repo.InsertGoal(ctx, userID, core.Goal{
		Name: "Vacation", Target: core.Money{Cents: 500000},
		Current: core.Money{Cents: 100000}, TargetDate: core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}
	if _, err := repo.InsertGoal(ctx, userID, core.Goal{
		Name: "Laptop", Target: core.Money{Cents: 150000},
		TargetDate: core.NewDate(2024, 12, 1),
	}); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}

	goalTotal, err := repo.SumGoalTargets(ctx, userID)
	if err != nil {
		t.Fatalf("SumGoalTargets: %v", err)
	}
	if goalTotal != 650000 {
		t.Errorf("goal targets = %d, want 650000", goalTotal)
	}

	if _, err := repo.InsertDebt(ctx, userID, core.Debt{
		Name: "Car loan", Amount: core.Money{Cents: 800000}, TargetDate: core.NewDate(2026, 1, 1),
	}); err != nil {
		t.Fatalf("InsertDebt: %v", err)
	}

	debtTotal, err := repo.SumDebtAmounts(ctx, userID)
	if err != nil {
		t.Fatalf("SumDebtAmounts: %v", err)
	}
	if debtTotal != 800000 {
		t.Errorf("debt total = %d, want 800000", debtTotal)
	}
}
