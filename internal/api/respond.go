package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/akfinance/ledger/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps the error taxonomy onto HTTP statuses: validation
// failures are 400, missing or foreign-owned resources 404, uniqueness
// violations 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case common.IsValidation(err):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case common.IsNotFound(err):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case common.IsDuplicate(err):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	default:
		common.LogError(err, "request failed", common.Fields{"status": http.StatusInternalServerError})
		writeErrorStatus(w, http.StatusInternalServerError, "internal error")
	}
}
