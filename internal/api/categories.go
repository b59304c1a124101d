package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/ledger"
	"github.com/akfinance/ledger/internal/model"
)

type categoryRequest struct {
	Name  string                `json:"name"`
	Type  model.TransactionType `json:"type"`
	Icon  string                `json:"icon"`
	Color string                `json:"color"`
}

func (r categoryRequest) input() ledger.CategoryInput {
	return ledger.CategoryInput{
		Name:  r.Name,
		Type:  r.Type,
		Icon:  r.Icon,
		Color: r.Color,
	}
}

// listCategories handles GET /api/v1/categories, optionally filtered by
// ?type=INCOME|EXPENSE.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	txType := model.TransactionType(r.URL.Query().Get("type"))

	categories, err := s.svc.ListCategories(r.Context(), userID(r), txType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// createCategory handles POST /api/v1/categories.
func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	cat, err := s.svc.CreateCategory(r.Context(), userID(r), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// updateCategory handles PUT /api/v1/categories/{id}.
func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	cat, err := s.svc.UpdateCategory(r.Context(), userID(r), mux.Vars(r)["id"], req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// deleteCategory handles DELETE /api/v1/categories/{id}.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCategory(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
