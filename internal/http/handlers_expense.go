package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"budgetwise/internal/alert"
	"budgetwise/internal/budget"
	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/notify"
)

type expensePayload struct {
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
}

func (p expensePayload) toParams() (budget.ExpenseParams, error) {
	cents, err := core.ParseDecimalToCents(p.Amount.String())
	if err != nil {
		return budget.ExpenseParams{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return budget.ExpenseParams{}, err
	}
	category := core.Category(strings.TrimSpace(p.Category))
	if !category.Valid() {
		return budget.ExpenseParams{}, core.ErrInvalidCategory
	}
	return budget.ExpenseParams{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    category,
		Description: strings.TrimSpace(p.Description),
	}, nil
}

// expenseResponse carries the written record plus the alert evaluation for
// its category, when one is configured.
type expenseResponse struct {
	core.Expense
	Alert *alert.Evaluation `json:"alert,omitempty"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListExpenses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var p expensePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	exp, ev, err := s.svc.AddExpense(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	s.invalidateBreakdown()
	s.publishAlert(r, ev)
	writeJSON(w, r, http.StatusCreated, expenseResponse{Expense: exp, Alert: ev})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p expensePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	exp := core.Expense{
		ID:          id,
		Amount:      params.Amount,
		Date:        params.Date,
		Category:    params.Category,
		Description: params.Description,
	}
	ev, err := s.svc.UpdateExpense(r.Context(), exp)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	s.invalidateBreakdown()
	s.publishAlert(r, ev)
	writeJSON(w, r, http.StatusOK, expenseResponse{Expense: exp, Alert: ev})
}

// handleDeleteExpense removes a record. Deletion never evaluates alerts.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	s.invalidateBreakdown()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceExpenses(w http.ResponseWriter, r *http.Request) {
	var items []core.Expense
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.ReplaceExpenses(r.Context(), items); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	s.invalidateBreakdown()
	w.WriteHeader(http.StatusNoContent)
}

// publishAlert relays an exceeded evaluation to the notifier. Publish
// failures are logged and swallowed; the expense write already succeeded.
func (s *Server) publishAlert(r *http.Request, ev *alert.Evaluation) {
	if s.notifier == nil || ev == nil || !ev.Exceeded {
		return
	}
	if err := s.notifier.PublishAlert(r.Context(), notify.NewAlertEvent(*ev)); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to publish alert event",
			log.FieldError, err, log.FieldCategory, ev.Category.String())
	}
}
