package calculator

import (
	"slices"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

// Epsilon absorbs rounding noise when classifying balances and when deciding
// whether a debtor or creditor is fully settled.
var Epsilon = decimal.RequireFromString("0.009")

var half = decimal.RequireFromString("0.5")

type party struct {
	id     string
	amount decimal.Decimal
}

// ResolveTransfers turns net balances into a short list of payments.
//
// Balances are rounded to cents; anyone within Epsilon of zero is settled.
// Debtors and creditors are each sorted by amount, largest first, keeping the
// given order for equal amounts. The largest debtor then pays the largest
// creditor the smaller of the two amounts, and whoever is settled moves on.
// This yields at most debtors+creditors-1 transfers. It does not search for the
// global minimum number of transfers. Repeated ids in order are ignored.
func ResolveTransfers(order []string, balances map[string]decimal.Decimal) []models.Transfer {
	var debtors, creditors []party
	negEpsilon := Epsilon.Neg()

	for _, id := range uniqueIDs(order) {
		bal, ok := balances[id]
		if !ok {
			continue
		}
		v := RoundCents(bal)
		if v.LessThan(negEpsilon) {
			debtors = append(debtors, party{id: id, amount: v.Neg()})
		} else if v.GreaterThan(Epsilon) {
			creditors = append(creditors, party{id: id, amount: v})
		}
	}

	byAmountDesc := func(a, b party) int { return b.amount.Cmp(a.amount) }
	slices.SortStableFunc(debtors, byAmountDesc)
	slices.SortStableFunc(creditors, byAmountDesc)

	transfers := []models.Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := RoundCents(decimal.Min(debtors[i].amount, creditors[j].amount))
		if pay.IsPositive() {
			transfers = append(transfers, models.Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: pay,
			})
			debtors[i].amount = debtors[i].amount.Sub(pay)
			creditors[j].amount = creditors[j].amount.Sub(pay)
		}

		// Move to next debtor/creditor if fully settled
		if debtors[i].amount.LessThanOrEqual(Epsilon) {
			i++
		}
		if creditors[j].amount.LessThanOrEqual(Epsilon) {
			j++
		}
	}

	return transfers
}

// RoundCents rounds to two decimal places, halves toward positive infinity.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}
