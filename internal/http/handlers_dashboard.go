package http

import (
	"encoding/json"
	"net/http"

	"spendwise/internal/reports"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	tag := reports.MatchLocale(r.Header.Get("Accept-Language"))

	d, err := s.Reports.Dashboard(r.Context(), u.ID, tag)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", d)
}

// handleChartData serves the daily series as {labels, data}.
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	days, typ, err := ParseChartParams(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	tag := reports.MatchLocale(r.Header.Get("Accept-Language"))
	data, err := s.Reports.Chart(r.Context(), currentUser(r).ID, typ, days, tag)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
