package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"budgetwise/internal/budget"
	"budgetwise/internal/core"
)

// incomePayload is the create/update request body. The amount arrives as a
// decimal number and is converted to cents at the boundary.
type incomePayload struct {
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Source      string      `json:"source"`
	Description string      `json:"description"`
}

func (p incomePayload) toParams() (budget.IncomeParams, error) {
	cents, err := core.ParseDecimalToCents(p.Amount.String())
	if err != nil {
		return budget.IncomeParams{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return budget.IncomeParams{}, err
	}
	return budget.IncomeParams{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Source:      strings.TrimSpace(p.Source),
		Description: strings.TrimSpace(p.Description),
	}, nil
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListIncomes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var p incomePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	inc, err := s.svc.AddIncome(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, r, http.StatusCreated, inc)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p incomePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	inc := core.Income{
		ID:          id,
		Amount:      params.Amount,
		Date:        params.Date,
		Source:      params.Source,
		Description: params.Description,
	}
	if err := s.svc.UpdateIncome(r.Context(), inc); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, r, http.StatusOK, inc)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceIncomes swaps the whole collection in one write. The body is
// the stored layout, so records arrive complete with IDs.
func (s *Server) handleReplaceIncomes(w http.ResponseWriter, r *http.Request) {
	var items []core.Income
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.ReplaceIncomes(r.Context(), items); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
