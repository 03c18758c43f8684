package groups

import (
	"context"
	"net/http"
	"testing"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.SaveUser(domain.User{ID: "u-ann", Email: "ann@example.com", Name: "Ann"}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveUser(domain.User{ID: "u-bob", Email: "bob@example.com"}); err != nil {
		t.Fatal(err)
	}
	return NewService(st, nil), st
}

func TestCreateGroupAddsCreatorMembership(t *testing.T) {
	svc, st := newTestService(t)

	group, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Lisbon Trip", Type: "trip"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if group.Type != domain.GroupTrip {
		t.Errorf("type = %s, want TRIP", group.Type)
	}
	if len(group.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(group.Members))
	}
	member := group.Members[0]
	if member.UserID == nil || *member.UserID != "u-ann" {
		t.Errorf("creator membership not linked to u-ann")
	}
	if member.DisplayName != "Ann" {
		t.Errorf("displayName = %q, want user name fallback", member.DisplayName)
	}
	if member.Email != "ann@example.com" {
		t.Errorf("email = %q, want creator email fallback", member.Email)
	}

	saved, ok, err := st.GetGroup(group.ID)
	if err != nil || !ok {
		t.Fatalf("group not persisted: %v", err)
	}
	if saved.Name != "Lisbon Trip" {
		t.Errorf("persisted name = %q", saved.Name)
	}
}

func TestCreateGroupDefaultsAndOverrides(t *testing.T) {
	svc, _ := newTestService(t)

	group, err := svc.Create(context.Background(), "u-bob", CreateInput{
		Name:              "Kitchen Remodel",
		MemberDisplayName: "Bobby",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if group.Type != domain.GroupProject {
		t.Errorf("type = %s, want PROJECT default", group.Type)
	}
	if group.Members[0].DisplayName != "Bobby" {
		t.Errorf("displayName = %q, want override", group.Members[0].DisplayName)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		userID string
		in     CreateInput
		status int
	}{
		{"missing name", "u-ann", CreateInput{}, http.StatusBadRequest},
		{"bad type", "u-ann", CreateInput{Name: "x", Type: "HOLIDAY"}, http.StatusBadRequest},
		{"unknown user", "u-ghost", CreateInput{Name: "x"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.userID, tc.in)
			if got := apperr.HTTPStatus(err); got != tc.status {
				t.Errorf("status = %d, want %d (err %v)", got, tc.status, err)
			}
		})
	}
}

func TestGetGroupWithExpenses(t *testing.T) {
	svc, st := newTestService(t)

	group, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Trip", Type: "TRIP"})
	if err != nil {
		t.Fatal(err)
	}
	memberID := group.Members[0].ID
	err = st.SaveExpense(domain.Expense{
		ID:        "e1",
		GroupID:   group.ID,
		Name:      "Taxi",
		Amount:    "30.00",
		Currency:  "USD",
		SplitType: domain.SplitEven,
		Participants: []domain.ExpenseParticipant{
			{MemberID: memberID},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := svc.Get(context.Background(), "u-ann", group.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Members) != 1 {
		t.Errorf("members = %d, want 1", len(detail.Members))
	}
	if len(detail.Expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(detail.Expenses))
	}
	if got := detail.Expenses[0].ParticipantCosts[memberID]; got != "30.00" {
		t.Errorf("participant cost = %q, want 30.00", got)
	}
}

func TestGetGroupAccess(t *testing.T) {
	svc, _ := newTestService(t)

	group, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), "u-bob", group.ID); apperr.HTTPStatus(err) != http.StatusForbidden {
		t.Errorf("non-member get: status = %d, want 403", apperr.HTTPStatus(err))
	}
	if _, err := svc.Get(context.Background(), "u-ann", "nope"); apperr.HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("missing group: status = %d, want 404", apperr.HTTPStatus(err))
	}
}

func TestListMine(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Trip A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), "u-bob", CreateInput{Name: "Trip B"}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListMine(context.Background(), "u-ann")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Trip A" {
		t.Fatalf("mine = %+v, want only Trip A", mine)
	}
	if len(mine[0].Members) != 1 {
		t.Errorf("members not attached to listed group")
	}
}

func TestAddMember(t *testing.T) {
	svc, _ := newTestService(t)

	group, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}

	bobID := "u-bob"
	member, err := svc.AddMember(context.Background(), "u-ann", group.ID, MemberInput{
		DisplayName: "Bob",
		Email:       "bob@example.com",
		UserID:      &bobID,
	})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if member.UserID == nil || *member.UserID != "u-bob" {
		t.Errorf("member not linked to u-bob")
	}

	// Placeholder member with no account.
	ghost, err := svc.AddMember(context.Background(), "u-ann", group.ID, MemberInput{DisplayName: "Cousin Zelda"})
	if err != nil {
		t.Fatalf("AddMember placeholder: %v", err)
	}
	if ghost.UserID != nil {
		t.Errorf("placeholder member should have no linked user")
	}

	detail, err := svc.Get(context.Background(), "u-ann", group.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Members) != 3 {
		t.Errorf("members = %d, want 3", len(detail.Members))
	}
}

func TestAddMemberValidation(t *testing.T) {
	svc, _ := newTestService(t)

	group, err := svc.Create(context.Background(), "u-ann", CreateInput{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}
	ghostID := "u-ghost"

	cases := []struct {
		name   string
		userID string
		group  string
		in     MemberInput
		status int
	}{
		{"missing display name", "u-ann", group.ID, MemberInput{}, http.StatusBadRequest},
		{"unknown group", "u-ann", "nope", MemberInput{DisplayName: "X"}, http.StatusNotFound},
		{"non-member requester", "u-bob", group.ID, MemberInput{DisplayName: "X"}, http.StatusForbidden},
		{"unknown linked user", "u-ann", group.ID, MemberInput{DisplayName: "X", UserID: &ghostID}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddMember(context.Background(), tc.userID, tc.group, tc.in)
			if got := apperr.HTTPStatus(err); got != tc.status {
				t.Errorf("status = %d, want %d (err %v)", got, tc.status, err)
			}
		})
	}
}
