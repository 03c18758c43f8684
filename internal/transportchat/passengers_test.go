package transportchat

import (
	"reflect"
	"testing"

	"tripsplit/pkg/domain"
)

func member(id, displayName string, userID string) domain.Member {
	m := domain.Member{ID: id, GroupID: "g1", DisplayName: displayName}
	if userID != "" {
		m.UserID = &userID
	}
	return m
}

func TestResolveMemberIDs(t *testing.T) {
	members := []domain.Member{
		member("m-ann", "Ann", "u-ann"),
		member("m-anna", "Anna", ""),
		member("m-bob", "Bob Smith", "u-bob"),
	}

	tests := []struct {
		name        string
		passengers  []string
		currentUser string
		wantIDs     []string
		wantUnknown []string
	}{
		{
			name:        "empty list means the sender",
			passengers:  nil,
			currentUser: "u-bob",
			wantIDs:     []string{"m-bob"},
		},
		{
			name:        "self token resolves to the sender's member",
			passengers:  []string{"me"},
			currentUser: "u-ann",
			wantIDs:     []string{"m-ann"},
		},
		{
			name:        "substring match on display name",
			passengers:  []string{"smith"},
			currentUser: "u-ann",
			wantIDs:     []string{"m-bob"},
		},
		{
			name:        "first member in order wins a tie",
			passengers:  []string{"Ann"},
			currentUser: "u-bob",
			wantIDs:     []string{"m-ann"},
		},
		{
			name:        "unknown names fall back to the sender and are reported",
			passengers:  []string{"Zelda"},
			currentUser: "u-bob",
			wantIDs:     []string{"m-bob"},
			wantUnknown: []string{"Zelda"},
		},
		{
			name:        "mixed known and unknown keeps the match",
			passengers:  []string{"Bob", "Zelda"},
			currentUser: "u-ann",
			wantIDs:     []string{"m-bob"},
			wantUnknown: []string{"Zelda"},
		},
		{
			name:        "self plus name, deduped in message order",
			passengers:  []string{"me", "bob", "myself"},
			currentUser: "u-ann",
			wantIDs:     []string{"m-ann", "m-bob"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ids, unknown := ResolveMemberIDs(tc.passengers, members, tc.currentUser)
			if !reflect.DeepEqual(ids, tc.wantIDs) {
				t.Fatalf("member ids = %v, want %v", ids, tc.wantIDs)
			}
			if !reflect.DeepEqual(unknown, tc.wantUnknown) {
				t.Fatalf("unknown = %v, want %v", unknown, tc.wantUnknown)
			}
		})
	}
}

func TestResolveMemberIDsNoSelfMember(t *testing.T) {
	members := []domain.Member{member("m-ann", "Ann", "u-ann")}
	ids, unknown := ResolveMemberIDs([]string{"Zelda"}, members, "u-ghost")
	if len(ids) != 0 {
		t.Fatalf("no sender member to fall back to, got %v", ids)
	}
	if !reflect.DeepEqual(unknown, []string{"Zelda"}) {
		t.Fatalf("unknown = %v", unknown)
	}
}
