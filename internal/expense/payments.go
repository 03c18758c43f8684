package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/domain"
)

// PaymentInput records money paid against an expense.
type PaymentInput struct {
	PayerMemberID string    `json:"payerMemberId"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency,omitempty"`
	PaidAt        time.Time `json:"paidAt,omitempty"`
	Note          string    `json:"note,omitempty"`
}

func (s *Service) RecordPayment(ctx context.Context, userID, expenseID string, in PaymentInput) (domain.ExpensePayment, error) {
	exp, found, err := s.store.GetExpense(expenseID)
	if err != nil {
		return domain.ExpensePayment{}, fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return domain.ExpensePayment{}, apperr.NotFound("expense not found")
	}
	members, err := s.requireMembership(exp.GroupID, userID)
	if err != nil {
		return domain.ExpensePayment{}, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return domain.ExpensePayment{}, err
	}
	memberOK := false
	for _, m := range members {
		if m.ID == in.PayerMemberID {
			memberOK = true
			break
		}
	}
	if !memberOK {
		return domain.ExpensePayment{}, apperr.BadRequest("payer is not part of this group")
	}

	payment := domain.ExpensePayment{
		ID:            uuid.NewString(),
		ExpenseID:     expenseID,
		PayerMemberID: in.PayerMemberID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		PaidAt:        in.PaidAt,
		Note:          in.Note,
		CreatedAt:     time.Now().UTC(),
	}
	if payment.Currency == "" {
		payment.Currency = exp.Currency
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = payment.CreatedAt
	}
	if err := s.store.SavePayment(payment); err != nil {
		return domain.ExpensePayment{}, fmt.Errorf("save payment: %w", err)
	}
	return payment, nil
}

// PaymentUpdate carries a partial payment update; nil fields are left alone.
type PaymentUpdate struct {
	PayerMemberID *string    `json:"payerMemberId"`
	Amount        *string    `json:"amount"`
	Currency      *string    `json:"currency"`
	PaidAt        *time.Time `json:"paidAt"`
	Note          *string    `json:"note"`
}

func (s *Service) UpdatePayment(ctx context.Context, userID, paymentID string, in PaymentUpdate) (domain.ExpensePayment, error) {
	payment, found, err := s.store.GetPayment(paymentID)
	if err != nil {
		return domain.ExpensePayment{}, fmt.Errorf("load payment: %w", err)
	}
	if !found {
		return domain.ExpensePayment{}, apperr.NotFound("payment not found")
	}
	exp, found, err := s.store.GetExpense(payment.ExpenseID)
	if err != nil {
		return domain.ExpensePayment{}, fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return domain.ExpensePayment{}, apperr.NotFound("expense not found")
	}
	members, err := s.requireMembership(exp.GroupID, userID)
	if err != nil {
		return domain.ExpensePayment{}, err
	}
	if in.Amount != nil {
		if err := validateAmount(*in.Amount); err != nil {
			return domain.ExpensePayment{}, err
		}
		payment.Amount = *in.Amount
	}
	if in.PayerMemberID != nil {
		memberOK := false
		for _, m := range members {
			if m.ID == *in.PayerMemberID {
				memberOK = true
				break
			}
		}
		if !memberOK {
			return domain.ExpensePayment{}, apperr.BadRequest("payer is not part of this group")
		}
		payment.PayerMemberID = *in.PayerMemberID
	}
	if in.Currency != nil {
		payment.Currency = *in.Currency
		if payment.Currency == "" {
			payment.Currency = exp.Currency
		}
	}
	if in.PaidAt != nil && !in.PaidAt.IsZero() {
		payment.PaidAt = *in.PaidAt
	}
	if in.Note != nil {
		payment.Note = *in.Note
	}
	if err := s.store.SavePayment(payment); err != nil {
		return domain.ExpensePayment{}, fmt.Errorf("save payment: %w", err)
	}
	return payment, nil
}

func (s *Service) DeletePayment(ctx context.Context, userID, paymentID string) error {
	payment, found, err := s.store.GetPayment(paymentID)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if !found {
		return apperr.NotFound("payment not found")
	}
	exp, found, err := s.store.GetExpense(payment.ExpenseID)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return apperr.NotFound("expense not found")
	}
	if _, err := s.requireMembership(exp.GroupID, userID); err != nil {
		return err
	}
	if err := s.store.DeletePayment(paymentID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
