package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/ledger"
)

type budgetCreateRequest struct {
	CategoryID  string          `json:"categoryId"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	LimitAmount decimal.Decimal `json:"limitAmount"`
	Currency    string          `json:"currency"`
}

type budgetUpdateRequest struct {
	LimitAmount decimal.Decimal `json:"limitAmount"`
	Currency    string          `json:"currency"`
}

// listBudgets handles GET /api/v1/budgets?month=&year=, returning each
// budget with its period spend and progress.
func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	budgets, err := s.svc.ListBudgets(r.Context(), userID(r), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// createBudget handles POST /api/v1/budgets.
func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	budget, err := s.svc.CreateBudget(r.Context(), userID(r), ledger.BudgetInput{
		CategoryID:  req.CategoryID,
		Month:       req.Month,
		Year:        req.Year,
		LimitAmount: req.LimitAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

// updateBudget handles PUT /api/v1/budgets/{id}. Only the limit and the
// currency are mutable.
func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	budget, err := s.svc.UpdateBudget(r.Context(), userID(r), mux.Vars(r)["id"], req.LimitAmount, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// deleteBudget handles DELETE /api/v1/budgets/{id}.
func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBudget(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
