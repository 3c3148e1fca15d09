package calculator

import (
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	ParticipantID string
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid     decimal.Decimal // Amount credited for expenses this person fronted
	TotalOwed     decimal.Decimal // Amount this person consumed
}

// CalculateBalances computes one net balance per participant across all expenses.
//
// Algorithm:
//   - Every participant starts at zero
//   - For each expense: the payer is credited with what the expense allocated,
//     each participant is debited their share
//   - net_balance = total_paid - total_owed
//
// Expenses whose payer is not a participant are skipped. A participant id
// listed twice is counted once. The result is in participant order and always
// sums to zero.
func CalculateBalances(participants []models.Participant, expenses []models.Expense, policy models.UnassignedPolicy) []MemberBalance {
	universe := uniqueIDs(models.ParticipantIDs(participants))

	balances := make(map[string]*MemberBalance, len(participants))
	for _, id := range universe {
		balances[id] = &MemberBalance{
			ParticipantID: id,
			NetBalance:    decimal.Zero,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
		}
	}

	for i := range expenses {
		expense := &expenses[i]

		// Skip expenses without a known payer (nobody to credit)
		payer, ok := balances[expense.PaidBy]
		if !ok {
			continue
		}

		alloc := Allocate(expense, universe, policy)
		payer.TotalPaid = payer.TotalPaid.Add(alloc.Allocated)

		for id, split := range alloc.Splits {
			balances[id].TotalOwed = balances[id].TotalOwed.Add(split.Total)
		}
	}

	out := make([]MemberBalance, 0, len(universe))
	for _, id := range universe {
		bal := balances[id]
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		out = append(out, *bal)
	}
	return out
}

// NetBalances turns member balances into a participant id to net balance map.
func NetBalances(balances []MemberBalance) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal, len(balances))
	for _, bal := range balances {
		net[bal.ParticipantID] = bal.NetBalance
	}
	return net
}

// ComputeSettlements returns the transfers that settle every expense, sharing
// unassigned items with everyone.
func ComputeSettlements(participants []models.Participant, expenses []models.Expense) []models.Transfer {
	return ComputeSettlementsWithPolicy(participants, expenses, models.ShareWithEveryone)
}

// ComputeSettlementsWithPolicy is ComputeSettlements with an explicit policy for
// unassigned items.
func ComputeSettlementsWithPolicy(participants []models.Participant, expenses []models.Expense, policy models.UnassignedPolicy) []models.Transfer {
	if len(participants) == 0 || len(expenses) == 0 {
		return []models.Transfer{}
	}
	balances := CalculateBalances(participants, expenses, policy)
	return ResolveTransfers(models.ParticipantIDs(participants), NetBalances(balances))
}

// uniqueIDs returns ids without repeats, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
