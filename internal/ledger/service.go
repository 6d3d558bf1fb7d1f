package ledger

import (
	"context"
	"errors"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// AddExpense inserts a one-time or recurring bill. Expense names are kept
// unique within the due date's month, checked against the stored rows at
// insert time.
func (s *Service) AddExpense(ctx context.Context, username string, e core.Expense) (int64, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	applyDefaults(&e.Owner, username, &e.DueDate)
	if e.Repeat == "" {
		e.Repeat = core.RepeatNone
	}
	if err := e.Validate(); err != nil {
		return 0, apperr.ValidationErr(err)
	}

	start, end := core.MonthWindow(e.DueDate.Year(), e.DueDate.Month())
	taken, err := s.store.ExpenseNameInWindow(ctx, userID, e.Name, start, end)
	if err != nil {
		return 0, apperr.Internal("check expense name", err)
	}
	if taken {
		return 0, apperr.DuplicateExpenseName(e.Name)
	}

	id, err := s.store.InsertExpense(ctx, userID, e)
	if err != nil {
		return 0, apperr.Internal("insert expense", err)
	}
	s.logger.InfoContext(ctx, "expense added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldOperation, log.OpCreate)
	return id, nil
}

// AddSpending inserts a transaction. ExpenseName may be empty (unlinked);
// when set it should match an expense name but nothing enforces that.
func (s *Service) AddSpending(ctx context.Context, username string, sp core.Spending) (int64, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	applyDefaults(&sp.Owner, username, &sp.Date)
	if err := sp.Validate(); err != nil {
		return 0, apperr.ValidationErr(err)
	}
	id, err := s.store.InsertSpending(ctx, userID, sp)
	if err != nil {
		return 0, apperr.Internal("insert spending", err)
	}
	s.logger.InfoContext(ctx, "spending added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldOperation, log.OpCreate)
	return id, nil
}

func (s *Service) AddIncome(ctx context.Context, username string, in core.Income) (int64, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	applyDefaults(&in.Owner, username, &in.Date)
	if err := in.Validate(); err != nil {
		return 0, apperr.ValidationErr(err)
	}
	id, err := s.store.InsertIncome(ctx, userID, in)
	if err != nil {
		return 0, apperr.Internal("insert income", err)
	}
	s.logger.InfoContext(ctx, "income added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldOperation, log.OpCreate)
	return id, nil
}

func (s *Service) AddDebt(ctx context.Context, username string, d core.Debt) (int64, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	if d.Owner == "" {
		d.Owner = username
	}
	if err := d.Validate(); err != nil {
		return 0, apperr.ValidationErr(err)
	}
	id, err := s.store.InsertDebt(ctx, userID, d)
	if err != nil {
		return 0, apperr.Internal("insert debt", err)
	}
	s.logger.InfoContext(ctx, "debt added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldOperation, log.OpCreate)
	return id, nil
}

func (s *Service) AddGoal(ctx context.Context, username string, g core.Goal) (int64, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	if g.Owner == "" {
		g.Owner = username
	}
	if err := g.Validate(); err != nil {
		return 0, apperr.ValidationErr(err)
	}
	id, err := s.store.InsertGoal(ctx, userID, g)
	if err != nil {
		return 0, apperr.Internal("insert goal", err)
	}
	s.logger.InfoContext(ctx, "goal added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldOperation, log.OpCreate)
	return id, nil
}

// ListSpending returns a month's spending rows (all of them, linked or
// not), newest first, with their total.
func (s *Service) ListSpending(ctx context.Context, username string, year, month int) ([]core.Spending, core.Money, error) {
	year, month, err := resolveMonth(year, month)
	if err != nil {
		return nil, core.Money{}, err
	}
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, core.Money{}, err
	}
	start, end := core.MonthWindow(year, month)
	rows, err := s.store.ListSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("list spending", err)
	}
	total, err := s.store.SumSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("sum spending", err)
	}
	return rows, core.Money{Cents: total}, nil
}

func (s *Service) ListIncome(ctx context.Context, username string, year, month int) ([]core.Income, core.Money, error) {
	year, month, err := resolveMonth(year, month)
	if err != nil {
		return nil, core.Money{}, err
	}
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, core.Money{}, err
	}
	start, end := core.MonthWindow(year, month)
	rows, err := s.store.ListIncomeInWindow(ctx, userID, start, end)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("list income", err)
	}
	total, err := s.store.SumIncomeInWindow(ctx, userID, start, end)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("sum income", err)
	}
	return rows, core.Money{Cents: total}, nil
}

// ListGoals returns all of a user's goals ordered by target date
// descending, with the sum of their target amounts.
func (s *Service) ListGoals(ctx context.Context, username string) ([]core.Goal, core.Money, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, core.Money{}, err
	}
	rows, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("list goals", err)
	}
	total, err := s.store.SumGoalTargets(ctx, userID)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("sum goal targets", err)
	}
	return rows, core.Money{Cents: total}, nil
}

func (s *Service) ListDebts(ctx context.Context, username string) ([]core.Debt, core.Money, error) {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, core.Money{}, err
	}
	rows, err := s.store.ListDebts(ctx, userID)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("list debt", err)
	}
	total, err := s.store.SumDebtAmounts(ctx, userID)
	if err != nil {
		return nil, core.Money{}, apperr.Internal("sum debt", err)
	}
	return rows, core.Money{Cents: total}, nil
}

// DeleteRecord removes one row by table and id, scoped to the user.
// Deleting a row the user does not own matches nothing and succeeds.
func (s *Service) DeleteRecord(ctx context.Context, username, table string, recordID int64) error {
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return err
	}
	affected, err := s.store.DeleteRecord(ctx, userID, table, recordID)
	if errors.Is(err, storage.ErrUnknownTable) {
		return apperr.Validation("unknown table %q", table)
	}
	if err != nil {
		return apperr.Internal("delete record", err)
	}
	s.logger.InfoContext(ctx, "record deleted",
		log.FieldUsername, username,
		log.FieldTable, table,
		log.FieldRecordID, recordID,
		log.FieldRowCount, affected,
		log.FieldOperation, log.OpDelete)
	return nil
}

// applyDefaults fills missing input: owner falls back to the acting
// username, a zero date to today.
func applyDefaults(owner *string, username string, date *core.Date) {
	if *owner == "" {
		*owner = username
	}
	if date.IsZero() {
		*date = core.Today()
	}
}
