package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestImporter(t *testing.T) (*Service, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if _, err := repo.CreateUser(context.Background(), "alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewService(repo, nil), repo
}

func TestImportSpending(t *testing.T) {
	svc, repo := newTestImporter(t)
	ctx := context.Background()

	rows := []Row{
		{"name": "groceries", "amount": "45.50", "date": "2024-03-02", "category": "FOOD", "owner": "alice", "expense_name": ""},
		{"name": "payment", "amount": "1200", "date": "2024-03-05", "category": "Bills", "owner": "alice", "expense_name": "rent"},
	}

	n, err := svc.Import(ctx, "alice", storage.TableSpending, rows)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	userID, err := repo.GetUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserID: %v", err)
	}
	start, end := core.MonthWindow(2024, 3)
	stored, err := repo.ListSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("ListSpendingInWindow: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored = %+v", stored)
	}
	// Newest first: payment on the 5th, then groceries.
	if stored[0].Name != "Payment" || stored[0].ExpenseName != "Rent" {
		t.Errorf("names not capitalized: %+v", stored[0])
	}
	if stored[1].Category != "food" {
		t.Errorf("category not lower-cased: %q", stored[1].Category)
	}
	if stored[0].Amount.Cents != 120000 {
		t.Errorf("amount = %d, want 120000", stored[0].Amount.Cents)
	}
}

func TestImportExpensesValidatesRepeat(t *testing.T) {
	svc, _ := newTestImporter(t)

	good := []Row{
		{"name": "rent", "expected": "1200", "due_date": "2024-03-01", "repeat_type": "MONTHLY", "owner": "alice"},
	}
	if _, err := svc.Import(context.Background(), "alice", storage.TableExpenses, good); err != nil {
		t.Fatalf("Import: %v", err)
	}

	bad := []Row{
		{"name": "rent", "expected": "1200", "due_date": "2024-04-01", "repeat_type": "weekly", "owner": "alice"},
	}
	if _, err := svc.Import(context.Background(), "alice", storage.TableExpenses, bad); !errors.Is(err, apperr.ErrBadImport) {
		t.Errorf("bad repeat = %v, want bad-import error", err)
	}
}

func TestImportUnknownTable(t *testing.T) {
	svc, _ := newTestImporter(t)

	_, err := svc.Import(context.Background(), "alice", "users", []Row{{"name": "x"}})
	if !errors.Is(err, apperr.ErrBadImport) {
		t.Errorf("Import(users) = %v, want bad-import error", err)
	}
}

func TestImportMissingColumn(t *testing.T) {
	svc, _ := newTestImporter(t)

	rows := []Row{
		{"name": "groceries", "amount": "45.50", "date": "2024-03-02", "category": "food", "owner": "alice"},
	}
	_, err := svc.Import(context.Background(), "alice", storage.TableSpending, rows)
	if !errors.Is(err, apperr.ErrBadImport) {
		t.Errorf("missing expense_name column = %v, want bad-import error", err)
	}
}

func TestImportAllOrNothing(t *testing.T) {
	svc, repo := newTestImporter(t)
	ctx := context.Background()

	rows := []Row{
		{"name": "salary", "amount": "2500", "date": "2024-03-01", "type": "salary", "owner": "alice"},
		{"name": "bonus", "amount": "not a number", "date": "2024-03-15", "type": "bonus", "owner": "alice"},
	}
	if _, err := svc.Import(ctx, "alice", storage.TableIncome, rows); !errors.Is(err, apperr.ErrBadImport) {
		t.Fatalf("Import = %v, want bad-import error", err)
	}

	userID, err := repo.GetUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserID: %v", err)
	}
	start, end := core.MonthWindow(2024, 3)
	stored, err := repo.ListIncomeInWindow(ctx, userID, start, end)
	if err != nil {
		t.Fatalf("ListIncomeInWindow: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("partial import landed: %+v", stored)
	}
}

func TestImportRowLimit(t *testing.T) {
	svc, _ := newTestImporter(t)
	svc.MaxRows = 1

	rows := []Row{
		{"name": "a", "amount": "1", "date": "2024-03-01", "type": "salary", "owner": "alice"},
		{"name": "b", "amount": "2", "date": "2024-03-02", "type": "salary", "owner": "alice"},
	}
	if _, err := svc.Import(context.Background(), "alice", storage.TableIncome, rows); !errors.Is(err, apperr.ErrBadImport) {
		t.Errorf("over limit = %v, want bad-import error", err)
	}
}

func TestImportUnknownUser(t *testing.T) {
	svc, _ := newTestImporter(t)

	_, err := svc.Import(context.Background(), "ghost", storage.TableIncome, nil)
	if !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("Import(ghost) = %v, want user-not-found error", err)
	}
}

func TestImportBadDate(t *testing.T) {
	svc, _ := newTestImporter(t)

	rows := []Row{
		{"name": "rent", "expected": "1200", "due_date": "01/03/2024", "repeat_type": "none", "owner": "alice"},
	}
	if _, err := svc.Import(context.Background(), "alice", storage.TableExpenses, rows); !errors.Is(err, apperr.ErrBadImport) {
		t.Errorf("bad date = %v, want bad-import error", err)
	}
}
