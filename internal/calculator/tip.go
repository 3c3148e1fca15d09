package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned when a tip input is below zero.
var ErrNegativeAmount = errors.New("amounts cannot be negative")

var hundred = decimal.NewFromInt(100)

// TipSuggestion is the result of the tip helper.
type TipSuggestion struct {
	Tip   decimal.Decimal
	Total decimal.Decimal
}

// SuggestTip computes a tip and the resulting bill total.
// A fixed tip wins over the percentage; otherwise tip = subtotal × percent / 100.
// Both results are rounded to cents.
func SuggestTip(subtotal, tax, percent decimal.Decimal, fixed *decimal.Decimal) (TipSuggestion, error) {
	if subtotal.IsNegative() || tax.IsNegative() || percent.IsNegative() {
		return TipSuggestion{}, ErrNegativeAmount
	}

	var tip decimal.Decimal
	if fixed != nil {
		if fixed.IsNegative() {
			return TipSuggestion{}, ErrNegativeAmount
		}
		tip = *fixed
	} else {
		tip = subtotal.Mul(percent).Div(hundred)
	}
	tip = RoundCents(tip)

	return TipSuggestion{
		Tip:   tip,
		Total: RoundCents(subtotal.Add(tax).Add(tip)),
	}, nil
}
