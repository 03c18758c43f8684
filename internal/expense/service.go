package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/storage"
	"tripsplit/pkg/store"
)

const uploadURLExpiry = 5 * time.Minute

// Service implements expense and payment operations. Every operation checks
// that the requesting user is a member of the expense's group.
type Service struct {
	store   store.Store
	objects storage.ObjectStore
	logger  *slog.Logger
}

func NewService(st store.Store, objects storage.ObjectStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, objects: objects, logger: logger}
}

// View is an expense plus the derived per-participant costs, payments, and
// the attached receipt uploads with short-lived download URLs.
type View struct {
	domain.Expense
	ParticipantCosts ParticipantCosts        `json:"participantCosts"`
	Payments         []domain.ExpensePayment `json:"payments,omitempty"`
	Uploads          []UploadView            `json:"uploads,omitempty"`
}

type UploadView struct {
	domain.UploadedExpense
	SignedURL          string `json:"signedUrl,omitempty"`
	SignedURLExpiresIn int    `json:"signedUrlExpiresIn,omitempty"`
}

// CreateInput carries a new expense. Amounts, percents, and shares are
// decimal strings; the zero Date means now.
type CreateInput struct {
	GroupID       string                      `json:"groupId"`
	PayerMemberID string                      `json:"payerMemberId,omitempty"`
	Name          string                      `json:"name"`
	Description   string                      `json:"description,omitempty"`
	Amount        string                      `json:"amount"`
	Currency      string                      `json:"currency,omitempty"`
	Date          time.Time                   `json:"date,omitempty"`
	Category      string                      `json:"category,omitempty"`
	Status        domain.ExpenseStatus        `json:"status,omitempty"`
	SplitType     domain.SplitType            `json:"splitType"`
	Participants  []domain.ExpenseParticipant `json:"participants,omitempty"`
	PercentMap    map[string]string           `json:"percentMap,omitempty"`
	ShareMap      map[string]string           `json:"shareMap,omitempty"`
	LineItems     []domain.ExpenseLineItem    `json:"lineItems,omitempty"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (View, error) {
	if in.Name == "" {
		return View{}, apperr.BadRequest("name is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return View{}, err
	}
	if err := validateSplitType(in.SplitType); err != nil {
		return View{}, err
	}

	_, found, err := s.store.GetGroup(in.GroupID)
	if err != nil {
		return View{}, fmt.Errorf("load group: %w", err)
	}
	if !found {
		return View{}, apperr.NotFound("group not found")
	}
	members, err := s.requireMembership(in.GroupID, userID)
	if err != nil {
		return View{}, err
	}
	if err := validateParticipants(members, in.PayerMemberID, in.Participants); err != nil {
		return View{}, err
	}

	now := time.Now().UTC()
	exp := domain.Expense{
		ID:           uuid.NewString(),
		GroupID:      in.GroupID,
		Name:         in.Name,
		Description:  in.Description,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Date:         in.Date,
		Category:     in.Category,
		Status:       in.Status,
		SplitType:    in.SplitType,
		Participants: in.Participants,
		PercentMap:   in.PercentMap,
		ShareMap:     in.ShareMap,
		LineItems:    assignLineItemIDs(in.LineItems),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.PayerMemberID != "" {
		exp.PayerMemberID = &in.PayerMemberID
	}
	if exp.Currency == "" {
		exp.Currency = "USD"
	}
	if exp.Date.IsZero() {
		exp.Date = now
	}
	if exp.Status == "" {
		if exp.PayerMemberID != nil {
			exp.Status = domain.ExpenseConfirmed
		} else {
			exp.Status = domain.ExpenseDraft
		}
	}

	if err := s.store.SaveExpense(exp); err != nil {
		return View{}, fmt.Errorf("save expense: %w", err)
	}
	s.logger.Info("expense created",
		slog.String("group_id", exp.GroupID), slog.String("expense_id", exp.ID))
	return View{Expense: exp, ParticipantCosts: CalculateParticipantCosts(exp)}, nil
}

// UpdateInput is a partial update; nil fields are left unchanged and a
// non-nil empty map clears the stored map.
type UpdateInput struct {
	PayerMemberID *string                      `json:"payerMemberId"`
	Name          *string                      `json:"name"`
	Description   *string                      `json:"description"`
	Amount        *string                      `json:"amount"`
	Currency      *string                      `json:"currency"`
	Date          *time.Time                   `json:"date"`
	Category      *string                      `json:"category"`
	Status        *domain.ExpenseStatus        `json:"status"`
	SplitType     *domain.SplitType            `json:"splitType"`
	Participants  *[]domain.ExpenseParticipant `json:"participants"`
	PercentMap    *map[string]string           `json:"percentMap"`
	ShareMap      *map[string]string           `json:"shareMap"`
	LineItems     *[]domain.ExpenseLineItem    `json:"lineItems"`
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (View, error) {
	exp, found, err := s.store.GetExpense(id)
	if err != nil {
		return View{}, fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return View{}, apperr.NotFound("expense not found")
	}
	members, err := s.requireMembership(exp.GroupID, userID)
	if err != nil {
		return View{}, err
	}

	if in.Amount != nil {
		if err := validateAmount(*in.Amount); err != nil {
			return View{}, err
		}
		exp.Amount = *in.Amount
	}
	if in.SplitType != nil {
		if err := validateSplitType(*in.SplitType); err != nil {
			return View{}, err
		}
		exp.SplitType = *in.SplitType
	}
	if in.PayerMemberID != nil {
		if *in.PayerMemberID == "" {
			exp.PayerMemberID = nil
		} else {
			exp.PayerMemberID = in.PayerMemberID
		}
	}
	if in.Participants != nil {
		exp.Participants = *in.Participants
	}
	if err := validateParticipants(members, derefOr(exp.PayerMemberID), exp.Participants); err != nil {
		return View{}, err
	}
	if in.Name != nil {
		exp.Name = *in.Name
	}
	if in.Description != nil {
		exp.Description = *in.Description
	}
	if in.Currency != nil {
		exp.Currency = *in.Currency
	}
	if in.Date != nil {
		exp.Date = *in.Date
	}
	if in.Category != nil {
		exp.Category = *in.Category
	}
	if in.Status != nil {
		exp.Status = *in.Status
	}
	if in.PercentMap != nil {
		exp.PercentMap = *in.PercentMap
	}
	if in.ShareMap != nil {
		exp.ShareMap = *in.ShareMap
	}
	if in.LineItems != nil {
		exp.LineItems = assignLineItemIDs(*in.LineItems)
	}
	exp.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveExpense(exp); err != nil {
		return View{}, fmt.Errorf("save expense: %w", err)
	}
	return View{Expense: exp, ParticipantCosts: CalculateParticipantCosts(exp)}, nil
}

// Get returns the expense with costs, payments, and presigned receipt URLs.
func (s *Service) Get(ctx context.Context, userID, id string) (View, error) {
	exp, found, err := s.store.GetExpense(id)
	if err != nil {
		return View{}, fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return View{}, apperr.NotFound("expense not found")
	}
	if _, err := s.requireMembership(exp.GroupID, userID); err != nil {
		return View{}, err
	}

	view := View{Expense: exp, ParticipantCosts: CalculateParticipantCosts(exp)}
	if view.Payments, err = s.store.ListExpensePayments(id); err != nil {
		return View{}, fmt.Errorf("load payments: %w", err)
	}
	uploads, err := s.store.ListExpenseUploads(id)
	if err != nil {
		return View{}, fmt.Errorf("load uploads: %w", err)
	}
	for _, up := range uploads {
		uv := UploadView{UploadedExpense: up}
		if s.objects != nil {
			url, err := s.objects.PresignGet(ctx, up.StorageKey, uploadURLExpiry)
			if err != nil {
				s.logger.Warn("presign receipt url failed",
					slog.String("upload_id", up.ID), slog.Any("error", err))
			} else {
				uv.SignedURL = url
				uv.SignedURLExpiresIn = int(uploadURLExpiry.Seconds())
			}
		}
		view.Uploads = append(view.Uploads, uv)
	}
	return view, nil
}

// ListGroup returns a group's expenses with costs, newest first per store
// ordering.
func (s *Service) ListGroup(ctx context.Context, userID, groupID string) ([]View, error) {
	if _, err := s.requireMembership(groupID, userID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListGroupExpenses(groupID)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	views := make([]View, 0, len(expenses))
	for _, exp := range expenses {
		views = append(views, View{Expense: exp, ParticipantCosts: CalculateParticipantCosts(exp)})
	}
	return views, nil
}

// Delete removes the expense, its payments and uploads, then best-effort
// deletes the stored receipt objects.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	exp, found, err := s.store.GetExpense(id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return apperr.NotFound("expense not found")
	}
	if _, err := s.requireMembership(exp.GroupID, userID); err != nil {
		return err
	}

	uploads, err := s.store.ListExpenseUploads(id)
	if err != nil {
		return fmt.Errorf("load uploads: %w", err)
	}
	if err := s.store.DeleteExpense(id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	for _, up := range uploads {
		if s.objects == nil {
			break
		}
		if err := s.objects.Delete(ctx, up.StorageKey); err != nil {
			s.logger.Warn("delete receipt object failed",
				slog.String("upload_id", up.ID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) requireMembership(groupID, userID string) ([]domain.Member, error) {
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	for _, m := range members {
		if m.UserID != nil && *m.UserID == userID {
			return members, nil
		}
	}
	return nil, apperr.Forbidden("you are not a member of this group")
}

func validateParticipants(members []domain.Member, payerMemberID string, participants []domain.ExpenseParticipant) error {
	valid := make(map[string]bool, len(members))
	for _, m := range members {
		valid[m.ID] = true
	}
	if payerMemberID != "" && !valid[payerMemberID] {
		return apperr.BadRequest("payer is not part of this group")
	}
	seen := make(map[string]bool, len(participants))
	var missing []string
	for _, p := range participants {
		if seen[p.MemberID] {
			return apperr.BadRequest("duplicate participant memberIds are not allowed")
		}
		seen[p.MemberID] = true
		if !valid[p.MemberID] {
			missing = append(missing, p.MemberID)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("some participants are not part of this group", map[string][]string{"missing": missing})
	}
	return nil
}

func validateAmount(amount string) error {
	r := ratFromString(amount)
	if amount == "" || r.Sign() <= 0 {
		return apperr.BadRequest("amount must be a positive decimal")
	}
	return nil
}

func validateSplitType(t domain.SplitType) error {
	switch t {
	case domain.SplitEven, domain.SplitPercent, domain.SplitShares:
		return nil
	default:
		return apperr.BadRequest("splitType must be EVEN, PERCENT, or SHARES")
	}
}

func assignLineItemIDs(items []domain.ExpenseLineItem) []domain.ExpenseLineItem {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	return items
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
