// Package expense implements expense CRUD and the per-participant split
// arithmetic (EVEN, PERCENT, SHARES).
package expense

import (
	"math/big"

	"tripsplit/pkg/domain"
)

// ParticipantCosts maps member id to that member's cost, formatted with two
// decimal places.
type ParticipantCosts map[string]string

// ratFromString parses a decimal string. Malformed values are treated as
// zero rather than failing the whole calculation.
func ratFromString(value string) *big.Rat {
	if value == "" {
		return new(big.Rat)
	}
	r, ok := new(big.Rat).SetString(value)
	if !ok {
		return new(big.Rat)
	}
	return r
}

func shareAmount(p domain.ExpenseParticipant) *big.Rat {
	if p.ShareAmount == nil {
		return new(big.Rat)
	}
	return ratFromString(*p.ShareAmount)
}

// CalculateParticipantCosts computes what each participant owes. EVEN divides
// the amount equally; PERCENT takes each member's percentage of the amount;
// SHARES splits proportionally to share counts. Members missing from the
// percent/share maps fall back to their participant shareAmount, and a zero
// share falls back to the even split.
func CalculateParticipantCosts(exp domain.Expense) ParticipantCosts {
	if len(exp.Participants) == 0 {
		return ParticipantCosts{}
	}

	amount := ratFromString(exp.Amount)
	shareCounts := make(map[string]*big.Rat, len(exp.Participants))
	for _, p := range exp.Participants {
		switch exp.SplitType {
		case domain.SplitEven:
			shareCounts[p.MemberID] = big.NewRat(1, 1)
		case domain.SplitPercent:
			if v, ok := exp.PercentMap[p.MemberID]; ok {
				shareCounts[p.MemberID] = ratFromString(v)
			} else {
				shareCounts[p.MemberID] = shareAmount(p)
			}
		case domain.SplitShares:
			if v, ok := exp.ShareMap[p.MemberID]; ok {
				shareCounts[p.MemberID] = ratFromString(v)
			} else {
				shareCounts[p.MemberID] = shareAmount(p)
			}
		default:
			shareCounts[p.MemberID] = new(big.Rat)
		}
	}

	totalShares := new(big.Rat)
	for _, share := range shareCounts {
		totalShares.Add(totalShares, share)
	}
	evenShare := new(big.Rat).Quo(amount, big.NewRat(int64(len(exp.Participants)), 1))
	hundred := big.NewRat(100, 1)
	zero := new(big.Rat)

	costs := make(ParticipantCosts, len(exp.Participants))
	for _, p := range exp.Participants {
		raw := shareCounts[p.MemberID]
		cost := evenShare
		switch {
		case exp.SplitType == domain.SplitPercent && raw.Cmp(zero) > 0:
			cost = new(big.Rat).Quo(new(big.Rat).Mul(amount, raw), hundred)
		case exp.SplitType != domain.SplitPercent && totalShares.Cmp(zero) > 0 && raw.Cmp(zero) > 0:
			cost = new(big.Rat).Quo(new(big.Rat).Mul(amount, raw), totalShares)
		}
		costs[p.MemberID] = cost.FloatString(2)
	}
	return costs
}
