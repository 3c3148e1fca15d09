package models

import "github.com/shopspring/decimal"

// Category classifies a receipt line.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryAlcohol   Category = "alcohol"
	CategoryAppetizer Category = "appetizer"
	CategoryTax       Category = "tax"
	CategoryTip       Category = "tip"
	CategoryIgnore    Category = "ignore"
)

// Valid reports whether c is one of the known categories.
// The empty category (not yet classified) is not valid.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryAlcohol, CategoryAppetizer, CategoryTax, CategoryTip, CategoryIgnore:
		return true
	}
	return false
}

// IsCharge reports whether lines of this category are items people pay for.
// Tax, tip and ignore lines are not assignable items.
func (c Category) IsCharge() bool {
	return c != CategoryTax && c != CategoryTip && c != CategoryIgnore
}

// SplitMethod selects how an expense is divided.
type SplitMethod string

const (
	SplitEven     SplitMethod = "even"
	SplitItemized SplitMethod = "itemized"
)

// ExpenseItem is a single line of an itemized expense.
type ExpenseItem struct {
	ID          string          `json:"id" yaml:"id"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`

	// SplitAmong is the owed-group for this item. Empty means unassigned.
	SplitAmong []string `json:"split_among,omitempty" yaml:"split_among,omitempty"`

	// Category is empty until supplied by the receipt parser or the categorizer.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Expense is one bill paid by a participant and owed by a group.
type Expense struct {
	ID          string          `json:"id" yaml:"id"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	PaidBy      string          `json:"paid_by" yaml:"paid_by"`

	// SplitAmong is the owed-group of a flat expense, and the default group
	// items fall back to when name matching leaves them unassigned.
	SplitAmong  []string        `json:"split_among,omitempty" yaml:"split_among,omitempty"`
	SplitMethod SplitMethod     `json:"split_method,omitempty" yaml:"split_method,omitempty"`
	Items       []ExpenseItem   `json:"items,omitempty" yaml:"items,omitempty"`
	Tax         decimal.Decimal `json:"tax" yaml:"tax"`
	Tip         decimal.Decimal `json:"tip" yaml:"tip"`
}

// IsItemized reports whether the expense is split per item.
// An itemized expense without items is divided like a flat one.
func (e *Expense) IsItemized() bool {
	return e.SplitMethod == SplitItemized && len(e.Items) > 0
}

// ItemsTotal is the sum of all item amounts.
func (e *Expense) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// Total is the amount to be accounted for: the items plus tax and tip for an
// itemized expense, the stated amount otherwise.
func (e *Expense) Total() decimal.Decimal {
	if e.IsItemized() {
		return e.ItemsTotal().Add(e.Tax).Add(e.Tip)
	}
	return e.Amount
}

// FindItem returns the item with the given id, or nil.
func (e *Expense) FindItem(itemID string) *ExpenseItem {
	for i := range e.Items {
		if e.Items[i].ID == itemID {
			return &e.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	out := e
	out.SplitAmong = cloneIDs(e.SplitAmong)
	if e.Items != nil {
		out.Items = make([]ExpenseItem, len(e.Items))
		for i, item := range e.Items {
			item.SplitAmong = cloneIDs(item.SplitAmong)
			out.Items[i] = item
		}
	}
	return out
}

// CloneExpenses deep-copies a list of expenses.
func CloneExpenses(expenses []Expense) []Expense {
	if expenses == nil {
		return nil
	}
	out := make([]Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.Clone()
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
