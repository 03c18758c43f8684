package server

import (
	"net/http"
	"strings"

	"tripsplit/internal/expense"
	"tripsplit/pkg/domain"
)

// /api/expenses
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req expense.CreateInput
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := s.expenses.Create(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"expense": view})
}

// handleExpenseSubtree dispatches /api/expenses/{id} and its payments.
func (s *Server) handleExpenseSubtree(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	expenseID := parts[0]

	switch {
	case len(parts) == 1:
		s.handleExpenseByID(w, r, user, expenseID)
	case len(parts) == 2 && parts[1] == "payments":
		s.handleRecordPayment(w, r, user, expenseID)
	case len(parts) == 3 && parts[1] == "payments":
		s.handlePaymentByID(w, r, user, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request, user domain.User, expenseID string) {
	switch r.Method {
	case http.MethodGet:
		view, err := s.expenses.Get(r.Context(), user.ID, expenseID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expense": view})
	case http.MethodPut, http.MethodPatch:
		var req expense.UpdateInput
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		view, err := s.expenses.Update(r.Context(), user.ID, expenseID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expense": view})
	case http.MethodDelete:
		if err := s.expenses.Delete(r.Context(), user.ID, expenseID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request, user domain.User, expenseID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req expense.PaymentInput
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	payment, err := s.expenses.RecordPayment(r.Context(), user.ID, expenseID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"payment": payment})
}

func (s *Server) handlePaymentByID(w http.ResponseWriter, r *http.Request, user domain.User, paymentID string) {
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req expense.PaymentUpdate
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		payment, err := s.expenses.UpdatePayment(r.Context(), user.ID, paymentID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payment": payment})
	case http.MethodDelete:
		if err := s.expenses.DeletePayment(r.Context(), user.ID, paymentID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}
