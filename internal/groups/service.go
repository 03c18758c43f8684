package groups

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/internal/expense"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

// Service manages groups and their member rosters.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService wires the group service.
func NewService(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// CreateInput carries a new group. The creator always becomes the first
// member; MemberDisplayName overrides the name used for that membership.
type CreateInput struct {
	Name              string     `json:"name"`
	Type              string     `json:"type,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	MemberDisplayName string     `json:"memberDisplayName,omitempty"`
	MemberEmail       string     `json:"memberEmail,omitempty"`
}

// MemberInput adds one member to a group. Display name is required; the
// member may optionally be linked to an existing user account.
type MemberInput struct {
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email,omitempty"`
	UserID      *string `json:"userId,omitempty"`
}

// Detail is a group with its roster and expenses, as returned by Get.
type Detail struct {
	domain.Group
	Expenses []expense.View `json:"expenses"`
}

// Create persists the group and the creator's membership.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (domain.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Group{}, apperr.BadRequest("name is required")
	}
	groupType, err := parseGroupType(in.Type)
	if err != nil {
		return domain.Group{}, err
	}
	user, ok, err := s.store.GetUserByID(userID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return domain.Group{}, apperr.Unauthorized("unauthorized")
	}

	group := domain.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      groupType,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveGroup(group); err != nil {
		return domain.Group{}, fmt.Errorf("save group: %w", err)
	}

	member := domain.Member{
		ID:          uuid.NewString(),
		GroupID:     group.ID,
		UserID:      &user.ID,
		DisplayName: creatorDisplayName(in.MemberDisplayName, user),
		Email:       firstNonEmpty(strings.TrimSpace(in.MemberEmail), user.Email),
		CreatedAt:   group.CreatedAt,
	}
	if err := s.store.SaveMember(member); err != nil {
		return domain.Group{}, fmt.Errorf("save creator membership: %w", err)
	}
	group.Members = []domain.Member{member}
	s.logger.Info("group created", "group_id", group.ID, "type", group.Type)
	return group, nil
}

// Get returns the group with its members and expenses. Requesters who are
// not members get a 403; expenses carry per-participant costs.
func (s *Service) Get(ctx context.Context, userID, groupID string) (Detail, error) {
	group, ok, err := s.store.GetGroup(groupID)
	if err != nil {
		return Detail{}, fmt.Errorf("load group: %w", err)
	}
	if !ok {
		return Detail{}, apperr.NotFound("group not found")
	}
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return Detail{}, fmt.Errorf("load members: %w", err)
	}
	if !isMember(members, userID) {
		return Detail{}, apperr.Forbidden("you are not a member of this group")
	}
	group.Members = members

	expenses, err := s.store.ListGroupExpenses(groupID)
	if err != nil {
		return Detail{}, fmt.Errorf("load expenses: %w", err)
	}
	views := make([]expense.View, 0, len(expenses))
	for _, exp := range expenses {
		views = append(views, expense.View{
			Expense:          exp,
			ParticipantCosts: expense.CalculateParticipantCosts(exp),
		})
	}
	return Detail{Group: group, Expenses: views}, nil
}

// RequireMember verifies the user belongs to the group. Missing groups are a
// 404, non-membership a 403.
func (s *Service) RequireMember(ctx context.Context, userID, groupID string) error {
	if _, ok, err := s.store.GetGroup(groupID); err != nil {
		return fmt.Errorf("load group: %w", err)
	} else if !ok {
		return apperr.NotFound("group not found")
	}
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	if !isMember(members, userID) {
		return apperr.Forbidden("you are not a member of this group")
	}
	return nil
}

// ListMine returns the groups the user belongs to.
func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.store.ListGroupsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	for i := range groups {
		members, err := s.store.ListGroupMembers(groups[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load members: %w", err)
		}
		groups[i].Members = members
	}
	return groups, nil
}

// AddMember appends a member to the roster. The requester must already be a
// member; the new member needs no account of their own.
func (s *Service) AddMember(ctx context.Context, userID, groupID string, in MemberInput) (domain.Member, error) {
	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		return domain.Member{}, apperr.BadRequest("displayName is required")
	}
	if _, ok, err := s.store.GetGroup(groupID); err != nil {
		return domain.Member{}, fmt.Errorf("load group: %w", err)
	} else if !ok {
		return domain.Member{}, apperr.NotFound("group not found")
	}
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return domain.Member{}, fmt.Errorf("load members: %w", err)
	}
	if !isMember(members, userID) {
		return domain.Member{}, apperr.Forbidden("you are not a member of this group")
	}

	var linkedUser *string
	if in.UserID != nil && strings.TrimSpace(*in.UserID) != "" {
		id := strings.TrimSpace(*in.UserID)
		if _, ok, err := s.store.GetUserByID(id); err != nil {
			return domain.Member{}, fmt.Errorf("load linked user: %w", err)
		} else if !ok {
			return domain.Member{}, apperr.BadRequest("linked user not found")
		}
		linkedUser = &id
	}

	member := domain.Member{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		UserID:      linkedUser,
		DisplayName: displayName,
		Email:       strings.TrimSpace(in.Email),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveMember(member); err != nil {
		return domain.Member{}, fmt.Errorf("save member: %w", err)
	}
	s.logger.Info("member added", "group_id", groupID, "member_id", member.ID)
	return member, nil
}

func parseGroupType(raw string) (domain.GroupType, error) {
	switch domain.GroupType(strings.ToUpper(strings.TrimSpace(raw))) {
	case domain.GroupTrip:
		return domain.GroupTrip, nil
	case domain.GroupProject, "":
		return domain.GroupProject, nil
	default:
		return "", apperr.BadRequest("type must be TRIP or PROJECT")
	}
}

func creatorDisplayName(override string, user domain.User) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		return user.Email
	}
	return "Creator"
}

func isMember(members []domain.Member, userID string) bool {
	for _, m := range members {
		if m.UserID != nil && *m.UserID == userID {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
