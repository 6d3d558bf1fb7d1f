package http

import (
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
)

func (s *Server) handleMonthlyView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.ledger.Monthly(r.Context(), usernameFrom(r.Context()), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyViewJSON(view))
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
		return
	}

	expected, err := formAmount(r.PostForm, "expected")
	if err != nil {
		writeError(w, r, err)
		return
	}
	dueDate, err := formDate(r.PostForm, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := core.Expense{
		Name:     core.Capitalize(r.PostForm.Get("name")),
		Expected: expected,
		DueDate:  dueDate,
		Repeat:   core.RepeatType(core.NormalizeTag(r.PostForm.Get("repeat"))),
		Owner:    core.Capitalize(r.PostForm.Get("owner")),
	}

	id, err := s.ledger.AddExpense(r.Context(), usernameFrom(r.Context()), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		year, month, err := monthParams(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rows, total, err := s.ledger.ListSpending(r.Context(), usernameFrom(r.Context()), year, month)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := []spendingJSON{}
		for _, sp := range rows {
			out = append(out, toSpendingJSON(sp))
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": out, "total_cents": total.Cents})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
			return
		}
		amount, err := formAmount(r.PostForm, "amount")
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := formDate(r.PostForm, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		sp := core.Spending{
			Name:        core.Capitalize(r.PostForm.Get("name")),
			Amount:      amount,
			Date:        date,
			Category:    core.NormalizeTag(r.PostForm.Get("category")),
			Owner:       r.PostForm.Get("owner"),
			ExpenseName: core.Capitalize(r.PostForm.Get("linkedExpense")),
		}
		id, err := s.ledger.AddSpending(r.Context(), usernameFrom(r.Context()), sp)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		year, month, err := monthParams(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rows, total, err := s.ledger.ListIncome(r.Context(), usernameFrom(r.Context()), year, month)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := []incomeJSON{}
		for _, in := range rows {
			out = append(out, incomeJSON{
				ID:          in.ID,
				Name:        in.Name,
				AmountCents: in.Amount.Cents,
				Date:        in.Date.String(),
				Type:        in.Type,
				Owner:       in.Owner,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": out, "total_cents": total.Cents})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
			return
		}
		amount, err := formAmount(r.PostForm, "amount")
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := formDate(r.PostForm, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		in := core.Income{
			Name:   core.Capitalize(r.PostForm.Get("name")),
			Amount: amount,
			Date:   date,
			Type:   core.NormalizeTag(r.PostForm.Get("type")),
			Owner:  r.PostForm.Get("owner"),
		}
		id, err := s.ledger.AddIncome(r.Context(), usernameFrom(r.Context()), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

func (s *Server) handleDebt(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rows, total, err := s.ledger.ListDebts(r.Context(), usernameFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := []debtJSON{}
		for _, d := range rows {
			out = append(out, debtJSON{
				ID:          d.ID,
				Name:        d.Name,
				AmountCents: d.Amount.Cents,
				TargetDate:  d.TargetDate.String(),
				Owner:       d.Owner,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": out, "total_cents": total.Cents})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
			return
		}
		amount, err := formAmount(r.PostForm, "amount")
		if err != nil {
			writeError(w, r, err)
			return
		}
		targetDate, err := formDate(r.PostForm, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		d := core.Debt{
			Name:       core.Capitalize(r.PostForm.Get("name")),
			Amount:     amount,
			TargetDate: targetDate,
			Owner:      r.PostForm.Get("owner"),
		}
		id, err := s.ledger.AddDebt(r.Context(), usernameFrom(r.Context()), d)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rows, total, err := s.ledger.ListGoals(r.Context(), usernameFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := []goalJSON{}
		for _, g := range rows {
			out = append(out, goalJSON{
				ID:           g.ID,
				Name:         g.Name,
				TargetCents:  g.Target.Cents,
				CurrentCents: g.Current.Cents,
				TargetDate:   g.TargetDate.String(),
				Owner:        g.Owner,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": out, "total_cents": total.Cents})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
			return
		}
		target, err := formAmount(r.PostForm, "target")
		if err != nil {
			writeError(w, r, err)
			return
		}
		current, err := formAmount(r.PostForm, "amount")
		if err != nil {
			writeError(w, r, err)
			return
		}
		targetDate, err := formDate(r.PostForm, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		g := core.Goal{
			Name:       r.PostForm.Get("name"),
			Target:     target,
			Current:    current,
			TargetDate: targetDate,
			Owner:      r.PostForm.Get("owner"),
		}
		id, err := s.ledger.AddGoal(r.Context(), usernameFrom(r.Context()), g)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
		return
	}

	table := strings.TrimSpace(r.Form.Get("table"))
	idStr := strings.TrimSpace(r.Form.Get("id"))
	recordID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || recordID < 1 {
		writeError(w, r, apperr.Validation("invalid record id"))
		return
	}

	if err := s.ledger.DeleteRecord(r.Context(), usernameFrom(r.Context()), table, recordID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
