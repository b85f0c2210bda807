package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"budgetwise/internal/alert"
	"budgetwise/internal/budget"
	"budgetwise/internal/core"
)

type alertPayload struct {
	Category string      `json:"category"`
	Limit    json.Number `json:"limit"`
}

func (p alertPayload) toParams() (budget.AlertParams, error) {
	category := core.Category(strings.TrimSpace(p.Category))
	if !category.Valid() {
		return budget.AlertParams{}, core.ErrInvalidCategory
	}
	cents, err := core.ParseDecimalToCents(p.Limit.String())
	if err != nil {
		return budget.AlertParams{}, core.ErrInvalidLimit
	}
	return budget.AlertParams{Category: category, Limit: core.Money{Cents: cents}}, nil
}

// alertsResponse pairs the configured settings with their live evaluations.
type alertsResponse struct {
	Settings []core.AlertSetting `json:"settings"`
	Statuses []alert.Evaluation  `json:"statuses"`
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.ListAlerts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	statuses, err := s.svc.AlertStatuses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, alertsResponse{Settings: settings, Statuses: statuses})
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var p alertPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	setting, err := s.svc.SetAlert(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, r, http.StatusCreated, setting)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p alertPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := p.toParams()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	setting := core.AlertSetting{ID: id, Category: params.Category, Limit: params.Limit}
	if err := s.svc.UpdateAlert(r.Context(), setting); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, r, http.StatusOK, setting)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAlert(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceAlerts(w http.ResponseWriter, r *http.Request) {
	var items []core.AlertSetting
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.ReplaceAlerts(r.Context(), items); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
