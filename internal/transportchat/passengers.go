package transportchat

import (
	"strings"

	"tripsplit/pkg/domain"
)

var selfTokens = map[string]bool{"me": true, "i": true, "my": true, "myself": true}

// ResolveMemberIDs maps freeform passenger names to group member ids. An
// empty passenger list means the sender themselves. Self tokens resolve to
// the member linked to currentUserID; everything else matches by substring
// containment against display names, first match in member order wins.
// Unmatched names are reported, not fatal; when nothing at all matches, the
// sender is assigned so the request never ends up member-less.
func ResolveMemberIDs(passengers []string, members []domain.Member, currentUserID string) (memberIDs []string, unknown []string) {
	names := passengers
	if len(names) == 0 {
		names = []string{"me"}
	}

	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			memberIDs = append(memberIDs, id)
		}
	}
	self := func() (domain.Member, bool) {
		for _, m := range members {
			if m.UserID != nil && *m.UserID == currentUserID {
				return m, true
			}
		}
		return domain.Member{}, false
	}

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if selfTokens[name] {
			if m, ok := self(); ok {
				add(m.ID)
			}
			continue
		}
		matched := false
		for _, m := range members {
			if strings.Contains(strings.ToLower(m.DisplayName), name) {
				add(m.ID)
				matched = true
				break
			}
		}
		if !matched {
			unknown = append(unknown, raw)
		}
	}

	if len(memberIDs) == 0 {
		if m, ok := self(); ok {
			add(m.ID)
		}
	}
	return memberIDs, unknown
}
