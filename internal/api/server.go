// Package api exposes the ledger engine over a thin HTTP surface.
//
// Authentication and token issuance are external collaborators: the caller
// identity arrives as the X-User-ID header, resolved upstream by whatever
// fronts this service.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/akfinance/ledger/internal/ledger"
)

type contextKey string

const userIDKey contextKey = "userID"

// Server is the HTTP API server.
type Server struct {
	svc    *ledger.Service
	router *mux.Router
}

// NewServer creates an API server around the ledger service.
func NewServer(svc *ledger.Service) *Server {
	s := &Server{
		svc:    svc,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.requireUser)

	api.HandleFunc("/dashboard/summary", s.getDashboardSummary).Methods(http.MethodGet)

	api.HandleFunc("/transactions", s.searchTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.createTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.getTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", s.updateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.deleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.createCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", s.updateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.deleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/budgets", s.listBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budgets", s.createBudget).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}", s.updateBudget).Methods(http.MethodPut)
	api.HandleFunc("/budgets/{id}", s.deleteBudget).Methods(http.MethodDelete)

	api.HandleFunc("/preferences", s.getPreferences).Methods(http.MethodGet)
	api.HandleFunc("/preferences", s.updatePreferences).Methods(http.MethodPut)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
}

// Handler returns the HTTP handler for the API server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireUser resolves the caller identity from the X-User-ID header.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			writeErrorStatus(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
