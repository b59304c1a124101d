package api

import (
	"encoding/json"
	"net/http"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/ledger"
	"github.com/akfinance/ledger/internal/model"
)

type preferenceRequest struct {
	Locale          *string      `json:"locale"`
	Theme           *model.Theme `json:"theme"`
	DefaultCurrency *string      `json:"defaultCurrency"`
}

type preferenceResponse struct {
	Locale          string      `json:"locale"`
	Theme           model.Theme `json:"theme"`
	DefaultCurrency string      `json:"defaultCurrency"`
}

func preferenceView(prefs *model.UserPreference) preferenceResponse {
	return preferenceResponse{
		Locale:          prefs.Locale,
		Theme:           prefs.Theme,
		DefaultCurrency: prefs.DefaultCurrency,
	}
}

// getPreferences handles GET /api/v1/preferences.
func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.svc.GetPreferences(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceView(prefs))
}

// updatePreferences handles PUT /api/v1/preferences. Absent fields keep
// their stored values.
func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	prefs, err := s.svc.UpdatePreferences(r.Context(), userID(r), ledger.PreferenceInput{
		Locale:          req.Locale,
		Theme:           req.Theme,
		DefaultCurrency: req.DefaultCurrency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceView(prefs))
}
