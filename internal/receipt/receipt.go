// Package receipt turns a parsed receipt into expenses.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoItems is returned for a receipt without any line items.
	ErrNoItems = errors.New("receipt has no items")

	// ErrNegativeAmount is returned when a line, the tax or the tip is below zero.
	ErrNegativeAmount = errors.New("receipt amounts cannot be negative")
)

// Item is one line of a parsed receipt.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    models.Category `json:"category,omitempty"`
}

// Receipt is the output of the receipt parser.
type Receipt struct {
	Merchant string          `json:"merchant,omitempty"`
	Date     string          `json:"date,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Items    []Item          `json:"items"`
}

// Decode parses a receipt. The parser may wrap its JSON in a string field:
//
//	{"output_text": "{\"items\": [...]}"}
func Decode(data []byte) (*Receipt, error) {
	var envelope struct {
		OutputText *string `json:"output_text"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	if envelope.OutputText != nil {
		data = []byte(*envelope.OutputText)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

// check rejects receipts that cannot be imported.
func (r *Receipt) check() error {
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	if r.Tax.IsNegative() {
		return fmt.Errorf("%w: tax %s", ErrNegativeAmount, r.Tax)
	}
	if r.Tip.IsNegative() {
		return fmt.Errorf("%w: tip %s", ErrNegativeAmount, r.Tip)
	}
	for i, line := range r.Items {
		if line.Amount.IsNegative() {
			return fmt.Errorf("%w: %q is %s", ErrNegativeAmount, lineDescription(line, i), line.Amount)
		}
	}
	return nil
}

// ImportOptions controls how a receipt becomes expenses.
type ImportOptions struct {
	// Itemized imports the receipt as a single itemized expense. Otherwise
	// every line becomes its own flat expense.
	Itemized bool

	// IncludeTaxTip means tax and tip appear as receipt lines. The header
	// tax or tip is then dropped when a line named "tax" or "tip" exists, so
	// they are not counted twice.
	IncludeTaxTip bool
}

// ToExpenses converts a receipt into expenses paid by the first participant.
// Items are left unassigned.
func ToExpenses(r *Receipt, participants []models.Participant, opts ImportOptions, newID func() string) ([]models.Expense, error) {
	if r == nil {
		return nil, ErrNoItems
	}
	if err := r.check(); err != nil {
		return nil, err
	}

	payer := ""
	if len(participants) > 0 {
		payer = participants[0].ID
	}

	if !opts.Itemized {
		expenses := make([]models.Expense, len(r.Items))
		for i, line := range r.Items {
			expenses[i] = models.Expense{
				ID:          newID(),
				Description: lineDescription(line, i),
				Amount:      line.Amount,
				PaidBy:      payer,
				SplitMethod: models.SplitEven,
			}
		}
		return expenses, nil
	}

	items := make([]models.ExpenseItem, len(r.Items))
	hasTaxLine, hasTipLine := false, false
	for i, line := range r.Items {
		switch strings.ToLower(strings.TrimSpace(line.Description)) {
		case "tax":
			hasTaxLine = true
		case "tip":
			hasTipLine = true
		}
		item := models.ExpenseItem{
			ID:          newID(),
			Description: lineDescription(line, i),
			Amount:      line.Amount,
		}
		if line.Category.Valid() {
			item.Category = line.Category
		}
		items[i] = item
	}

	tax, tip := r.Tax, r.Tip
	if opts.IncludeTaxTip && hasTaxLine {
		tax = decimal.Zero
	}
	if opts.IncludeTaxTip && hasTipLine {
		tip = decimal.Zero
	}

	description := r.Merchant
	if strings.TrimSpace(description) == "" {
		description = "Receipt"
	}

	expense := models.Expense{
		ID:          newID(),
		Description: description,
		PaidBy:      payer,
		SplitAmong:  models.ParticipantIDs(participants),
		SplitMethod: models.SplitItemized,
		Items:       items,
		Tax:         tax,
		Tip:         tip,
	}
	expense.Amount = expense.ItemsTotal().Add(tax).Add(tip)
	return []models.Expense{expense}, nil
}

func lineDescription(line Item, i int) string {
	if line.Description == "" {
		return fmt.Sprintf("Item %d", i+1)
	}
	return line.Description
}
