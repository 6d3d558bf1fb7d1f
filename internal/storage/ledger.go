package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// Table names accepted by DeleteRecord and the import batch writer. They
// match the relation names, not the Go type names.
const (
	TableExpenses = "expenses"
	TableSpending = "spending"
	TableIncome   = "income"
	TableDebt     = "debt"
	TableGoals    = "goals"
)

// ErrUnknownTable is returned when a caller names a relation that does not
// hold ledger rows.
var ErrUnknownTable = errors.New("unknown table")

var deleteStatements = map[string]string{
	TableExpenses: `DELETE FROM expenses WHERE expense_id = ? AND user_id = ?`,
	TableSpending: `DELETE FROM spending WHERE spending_id = ? AND user_id = ?`,
	TableIncome:   `DELETE FROM income WHERE income_id = ? AND user_id = ?`,
	TableDebt:     `DELETE FROM debt WHERE debt_id = ? AND user_id = ?`,
	TableGoals:    `DELETE FROM goals WHERE goal_id = ? AND user_id = ?`,
}

// DeleteRecord deletes one row by id, scoped to the owning user. A row
// owned by someone else simply matches nothing; the affected count is
// returned so callers can tell.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, userID int64, table string, recordID int64) (int64, error) {
	stmt, ok := deleteStatements[table]
	if !ok {
		return 0, fmt.Errorf("delete from %q: %w", table, ErrUnknownTable)
	}
	res, err := r.db.ExecContext(ctx, stmt, recordID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete record affected: %w", err)
	}
	return n, nil
}

//
// Expenses
//

func (r *SQLiteRepository) InsertExpense(ctx context.Context, userID int64, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (name, expected, due_date, repeat_type, owner, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Expected.Cents, e.DueDate.String(), string(e.Repeat), e.Owner, userID)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert expense id: %w", err)
	}
	return id, nil
}

// ExpenseNameInWindow reports whether the user already has an expense with
// this name due inside [start, end). Backs the name-unique-per-month check
// at insert time; there is no schema constraint for it.
func (r *SQLiteRepository) ExpenseNameInWindow(ctx context.Context, userID int64, name string, start, end core.Date) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses
		 WHERE user_id = ? AND name = ? AND due_date >= ? AND due_date < ?`,
		userID, name, start.String(), end.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("expense name lookup: %w", err)
	}
	return n > 0, nil
}

// ListExpensesForView returns the user's expenses due inside [start, end)
// unioned with every monthly-repeating expense regardless of its original
// month. Ordered by stored due date then name; callers re-sort after
// projecting repeating rows onto the viewed month.
func (r *SQLiteRepository) ListExpensesForView(ctx context.Context, userID int64, start, end core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT expense_id, name, expected, due_date, repeat_type, owner FROM expenses
		 WHERE user_id = ? AND ((due_date >= ? AND due_date < ?) OR repeat_type = 'monthly')
		 ORDER BY due_date ASC, name ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			dueDate string
			repeat  string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Expected.Cents, &dueDate, &repeat, &e.Owner); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.DueDate, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("expense %d due date %q: %w", e.ID, dueDate, err)
		}
		e.Repeat = core.RepeatType(repeat)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SumExpectedInWindow totals expected amounts of expenses due inside
// [start, end). Repeating expenses pulled in from other months do not
// count here.
func (r *SQLiteRepository) SumExpectedInWindow(ctx context.Context, userID int64, start, end core.Date) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(expected), 0) FROM expenses
		 WHERE user_id = ? AND due_date >= ? AND due_date < ?`,
		userID, start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expected: %w", err)
	}
	return total, nil
}

//
// Spending
//

func (r *SQLiteRepository) InsertSpending(ctx context.Context, userID int64, s core.Spending) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO spending (name, amount, date, category, owner, expense_name, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Amount.Cents, s.Date.String(), s.Category, s.Owner, s.ExpenseName, userID)
	if err != nil {
		return 0, fmt.Errorf("insert spending: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert spending id: %w", err)
	}
	return id, nil
}

func scanSpendingRows(rows *sql.Rows) ([]core.Spending, error) {
	var out []core.Spending
	for rows.Next() {
		var (
			s    core.Spending
			date string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Amount.Cents, &date, &s.Category, &s.Owner, &s.ExpenseName); err != nil {
			return nil, fmt.Errorf("scan spending: %w", err)
		}
		var err error
		if s.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("spending %d date %q: %w", s.ID, date, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListSpendingInWindow returns all spending rows in [start, end), newest
// first, ties broken by name.
func (r *SQLiteRepository) ListSpendingInWindow(ctx context.Context, userID int64, start, end core.Date) ([]core.Spending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT spending_id, name, amount, date, category, owner, expense_name FROM spending
		 WHERE user_id = ? AND date >= ? AND date < ?
		 ORDER BY date DESC, name ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list spending: %w", err)
	}
	defer rows.Close()
	return scanSpendingRows(rows)
}

// ListLinkedSpending returns spending rows in [start, end) whose
// expense_name matches exactly, newest first, ties broken by name.
func (r *SQLiteRepository) ListLinkedSpending(ctx context.Context, userID int64, expenseName string, start, end core.Date) ([]core.Spending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT spending_id, name, amount, date, category, owner, expense_name FROM spending
		 WHERE user_id = ? AND expense_name = ? AND date >= ? AND date < ?
		 ORDER BY date DESC, name ASC`,
		userID, expenseName, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list linked spending: %w", err)
	}
	defer rows.Close()
	return scanSpendingRows(rows)
}

// SumSpendingInWindow totals every spending row in [start, end), linked
// or not.
func (r *SQLiteRepository) SumSpendingInWindow(ctx context.Context, userID int64, start, end core.Date) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM spending
		 WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum spending: %w", err)
	}
	return total, nil
}

// SumLinkedSpendingInWindow totals spending rows in [start, end) that
// carry a non-empty expense link.
func (r *SQLiteRepository) SumLinkedSpendingInWindow(ctx context.Context, userID int64, start, end core.Date) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM spending
		 WHERE user_id = ? AND expense_name != '' AND date >= ? AND date < ?`,
		userID, start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum linked spending: %w", err)
	}
	return total, nil
}

//
// Income
//

func (r *SQLiteRepository) InsertIncome(ctx context.Context, userID int64, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income (name, amount, date, type, owner, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Amount.Cents, in.Date.String(), in.Type, in.Owner, userID)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert income id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListIncomeInWindow(ctx context.Context, userID int64, start, end core.Date) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT income_id, name, amount, date, type, owner FROM income
		 WHERE user_id = ? AND date >= ? AND date < ?
		 ORDER BY date DESC, name ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in   core.Income
			date string
		)
		if err := rows.Scan(&in.ID, &in.Name, &in.Amount.Cents, &date, &in.Type, &in.Owner); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("income %d date %q: %w", in.ID, date, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SumIncomeInWindow(ctx context.Context, userID int64, start, end core.Date) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM income
		 WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum income: %w", err)
	}
	return total, nil
}

//
// Debt
//

func (r *SQLiteRepository) InsertDebt(ctx context.Context, userID int64, d core.Debt) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO debt (name, amount, target_date, owner, user_id)
		 VALUES (?, ?, ?, ?, ?)`,
		d.Name, d.Amount.Cents, d.TargetDate.String(), d.Owner, userID)
	if err != nil {
		return 0, fmt.Errorf("insert debt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert debt id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT debt_id, name, amount, target_date, owner FROM debt
		 WHERE user_id = ?
		 ORDER BY target_date DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debt: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		var (
			d    core.Debt
			date string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Amount.Cents, &date, &d.Owner); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.TargetDate, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("debt %d target date %q: %w", d.ID, date, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SumDebtAmounts(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM debt WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum debt: %w", err)
	}
	return total, nil
}

//
// Goals
//

func (r *SQLiteRepository) InsertGoal(ctx context.Context, userID int64, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target, amount, target_date, owner, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.Name, g.Target.Cents, g.Current.Cents, g.TargetDate.String(), g.Owner, userID)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert goal id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT goal_id, name, target, amount, target_date, owner FROM goals
		 WHERE user_id = ?
		 ORDER BY target_date DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g    core.Goal
			date string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &date, &g.Owner); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.TargetDate, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("goal %d target date %q: %w", g.ID, date, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SumGoalTargets(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(target), 0) FROM goals WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum goal targets: %w", err)
	}
	return total, nil
}
