package calculator

import (
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

var oneCent = decimal.New(1, -2)

// ItemizationDiscrepancy returns how far an itemized expense's stated amount is
// from its items plus tax and tip: amount - (items + tax + tip).
//
// Differences under one cent are reported as zero. Expenses that are not
// itemized have no discrepancy. Nothing is corrected.
func ItemizationDiscrepancy(expense *models.Expense) decimal.Decimal {
	if expense.SplitMethod != models.SplitItemized {
		return decimal.Zero
	}
	diff := expense.Amount.Sub(expense.ItemsTotal().Add(expense.Tax).Add(expense.Tip))
	if diff.Abs().LessThan(oneCent) {
		return decimal.Zero
	}
	return RoundCents(diff)
}
