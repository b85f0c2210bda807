package http

import (
	"net/http"

	"budgetwise/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.getSummary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.getBreakdown(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, breakdown)
}

// categoryInfo is the display metadata per category: an icon slug and a
// chart color token. Purely presentational; the domain only knows names.
type categoryInfo struct {
	Name  core.Category `json:"name"`
	Icon  string        `json:"icon"`
	Color string        `json:"color"`
}

var categoryCatalog = []categoryInfo{
	{Name: core.CategoryFood, Icon: "utensils", Color: "chart-1"},
	{Name: core.CategoryTransport, Icon: "car-front", Color: "chart-2"},
	{Name: core.CategoryHousing, Icon: "home", Color: "chart-3"},
	{Name: core.CategoryUtilities, Icon: "lightbulb", Color: "chart-4"},
	{Name: core.CategoryEntertainment, Icon: "popcorn", Color: "chart-5"},
	{Name: core.CategoryHealthcare, Icon: "stethoscope", Color: "chart-1"},
	{Name: core.CategoryShopping, Icon: "shopping-bag", Color: "chart-2"},
	{Name: core.CategoryPersonalCare, Icon: "sparkles", Color: "chart-3"},
	{Name: core.CategoryEducation, Icon: "book-open", Color: "chart-4"},
	{Name: core.CategoryOther, Icon: "more-horizontal", Color: "chart-5"},
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, categoryCatalog)
}
