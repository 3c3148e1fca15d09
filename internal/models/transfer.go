package models

import "github.com/shopspring/decimal"

// Transfer is a recommended payment that helps zero out balances.
// Transfers are derived from participants and expenses and are never stored
// as a source of truth.
type Transfer struct {
	// From is the debtor paying.
	From string `json:"from" yaml:"from"`

	// To is the creditor being paid.
	To string `json:"to" yaml:"to"`

	// Amount is always positive and rounded to cents.
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// TransfersTotal is the amount of money changing hands.
func TransfersTotal(transfers []Transfer) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transfers {
		total = total.Add(t.Amount)
	}
	return total
}
