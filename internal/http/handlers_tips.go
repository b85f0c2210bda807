package http

import (
	"net/http"

	"budgetwise/internal/advisor"
)

type tipsResponse struct {
	Tips []string `json:"tips"`
}

// handleTips generates budgeting suggestions from the stored finances. The
// advisor never fails the request; validation problems and upstream errors
// come back as canned tips with a 200.
func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	income, expenses, err := s.svc.TipData(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tips := s.tips.Tips(r.Context(), advisor.TipsRequest{
		Income:   income,
		Expenses: expenses,
	})
	writeJSON(w, r, http.StatusOK, tipsResponse{Tips: tips})
}
