// Package ledger implements the monthly aggregation logic and the per-kind
// record operations on top of the storage layer.
package ledger

import (
	"context"
	"errors"
	"sort"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// ExpenseView is one reconciled row of the monthly view: an expense (due
// date already projected onto the viewed month for monthly repeats), the
// total of spending linked to it by name, and the linked rows themselves.
type ExpenseView struct {
	Expense     core.Expense
	LinkedTotal core.Money
	Linked      []core.Spending
}

// MonthlyView is the reconciled month: expense rows with their linked
// spending, the expected total of expenses due this month, and the total
// of linked spending this month.
type MonthlyView struct {
	Year          int
	Month         int
	Expenses      []ExpenseView
	ExpenseTotal  core.Money
	SpendingTotal core.Money
}

type Service struct {
	store  *storage.SQLiteRepository
	logger *log.Logger
}

func NewService(store *storage.SQLiteRepository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger)
	}
	return &Service{store: store, logger: logger}
}

// resolveUser maps a username to its id. A miss here is an internal
// inconsistency, not user input: the username came from an authenticated
// session.
func (s *Service) resolveUser(ctx context.Context, username string) (int64, error) {
	id, err := s.store.GetUserID(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, apperr.UserNotFound(username)
	}
	if err != nil {
		return 0, apperr.Internal("resolve user", err)
	}
	return id, nil
}

// resolveMonth applies the current-month default and bounds-checks an
// explicit month.
func resolveMonth(year, month int) (int, int, error) {
	if year == 0 && month == 0 {
		today := core.Today()
		return today.Year(), today.Month(), nil
	}
	if month < 1 || month > 12 {
		return 0, 0, apperr.ValidationErr(core.ErrInvalidMonth)
	}
	return year, month, nil
}

// Monthly produces the reconciled view of a user's month.
//
// Expenses due inside the month are unioned with every monthly-repeating
// expense, whichever month it was created in. The expense total covers
// only rows actually due this month; the spending total covers only rows
// linked to some expense by name. Repeating expenses from other months
// are shown re-projected onto the viewed month.
func (s *Service) Monthly(ctx context.Context, username string, year, month int) (MonthlyView, error) {
	year, month, err := resolveMonth(year, month)
	if err != nil {
		return MonthlyView{}, err
	}
	userID, err := s.resolveUser(ctx, username)
	if err != nil {
		return MonthlyView{}, err
	}

	start, end := core.MonthWindow(year, month)
	view := MonthlyView{Year: year, Month: month}

	expenseTotal, err := s.store.SumExpectedInWindow(ctx, userID, start, end)
	if err != nil {
		return MonthlyView{}, apperr.Internal("sum expected", err)
	}
	view.ExpenseTotal = core.Money{Cents: expenseTotal}

	spendingTotal, err := s.store.SumLinkedSpendingInWindow(ctx, userID, start, end)
	if err != nil {
		return MonthlyView{}, apperr.Internal("sum linked spending", err)
	}
	view.SpendingTotal = core.Money{Cents: spendingTotal}

	expenses, err := s.store.ListExpensesForView(ctx, userID, start, end)
	if err != nil {
		return MonthlyView{}, apperr.Internal("list expenses", err)
	}

	for _, e := range expenses {
		// A monthly repeat created in another month displays as due in
		// the viewed month, same day of the month. The link below still
		// matches on the stored name, projection only moves the date.
		if e.Repeat == core.RepeatMonthly && (e.DueDate.Year() != year || e.DueDate.Month() != month) {
			e.DueDate = e.DueDate.ProjectOntoMonth(year, month)
		}

		linked, err := s.store.ListLinkedSpending(ctx, userID, e.Name, start, end)
		if err != nil {
			return MonthlyView{}, apperr.Internal("list linked spending", err)
		}
		var sub int64
		for _, sp := range linked {
			sub += sp.Amount.Cents
		}
		view.Expenses = append(view.Expenses, ExpenseView{
			Expense:     e,
			LinkedTotal: core.Money{Cents: sub},
			Linked:      linked,
		})
	}

	// Projection can reorder due dates, so sort after it.
	sort.SliceStable(view.Expenses, func(i, j int) bool {
		a, b := view.Expenses[i].Expense, view.Expenses[j].Expense
		if !a.DueDate.Equal(b.DueDate.Time) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.Name < b.Name
	})

	s.logger.DebugContext(ctx, "monthly view computed",
		log.FieldUsername, username,
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldRowCount, len(view.Expenses))

	return view, nil
}
