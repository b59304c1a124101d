package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/ledger"
	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

type transactionRequest struct {
	Type       model.TransactionType `json:"type"`
	Amount     decimal.Decimal       `json:"amount"`
	Currency   string                `json:"currency"`
	OccurredAt time.Time             `json:"occurredAt"`
	CategoryID string                `json:"categoryId"`
	Note       string                `json:"note"`
}

func (r transactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Type:       r.Type,
		Amount:     r.Amount,
		Currency:   r.Currency,
		OccurredAt: r.OccurredAt,
		CategoryID: r.CategoryID,
		Note:       r.Note,
	}
}

// searchTransactions handles GET /api/v1/transactions. All filters are
// optional; absent parameters impose no restriction.
func (s *Server) searchTransactions(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseSearchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.svc.SearchTransactions(r.Context(), userID(r), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseSearchQuery(r *http.Request) (service.TransactionFilter, service.Page, error) {
	var filter service.TransactionFilter
	var page service.Page
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, page, common.Validationf("invalid from timestamp %q", v)
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, page, common.Validationf("invalid to timestamp %q", v)
		}
		filter.To = &t
	}
	if v := q.Get("type"); v != "" {
		filter.Type = model.TransactionType(v)
	}
	filter.CategoryID = q.Get("categoryId")
	if v := q.Get("minAmount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, page, common.Validationf("invalid minAmount %q", v)
		}
		filter.MinAmount = &d
	}
	if v := q.Get("maxAmount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, page, common.Validationf("invalid maxAmount %q", v)
		}
		filter.MaxAmount = &d
	}
	filter.Query = q.Get("q")

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, page, common.Validationf("invalid limit %q", v)
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, page, common.Validationf("invalid offset %q", v)
		}
		page.Offset = n
	}

	return filter, page, nil
}

// createTransaction handles POST /api/v1/transactions.
func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	view, err := s.svc.CreateTransaction(r.Context(), userID(r), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// getTransaction handles GET /api/v1/transactions/{id}.
func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetTransaction(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// updateTransaction handles PUT /api/v1/transactions/{id}.
func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.Validationf("invalid request body: %v", err))
		return
	}

	view, err := s.svc.UpdateTransaction(r.Context(), userID(r), mux.Vars(r)["id"], req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// deleteTransaction handles DELETE /api/v1/transactions/{id}.
func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
