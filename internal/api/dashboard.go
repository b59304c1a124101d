package api

import (
	"net/http"
	"strconv"

	"github.com/akfinance/ledger/internal/common"
)

// getDashboardSummary handles GET /api/v1/dashboard/summary?month=&year=.
func (s *Server) getDashboardSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.svc.GetDashboardSummary(r.Context(), userID(r), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func parseMonthYear(r *http.Request) (int, int, error) {
	q := r.URL.Query()

	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return 0, 0, common.Validationf("invalid month %q", q.Get("month"))
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return 0, 0, common.Validationf("invalid year %q", q.Get("year"))
	}
	return month, year, nil
}
