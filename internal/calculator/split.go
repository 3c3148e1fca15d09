package calculator

import (
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

// PersonItem is one participant's share of a single item.
type PersonItem struct {
	ItemID      string          `json:"item_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`      // This person's share of the item
	SharedWith  int             `json:"shared_with"` // Size of the owed-group the item was divided by
}

// PersonSplit represents the calculated split of one expense for one person.
type PersonSplit struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Total    decimal.Decimal
	Items    []PersonItem
}

// Allocation is the result of dividing one expense.
type Allocation struct {
	// Splits maps participant id to what they owe for the expense.
	Splits map[string]*PersonSplit

	// Allocated is the sum of every share handed out. The payer is credited
	// with exactly this amount, which keeps balances zero-sum.
	Allocated decimal.Decimal

	// Unassigned lists items that nobody owes, in receipt order.
	Unassigned []models.ExpenseItem
}

// Allocate computes how much each participant owes for one expense.
//
// A flat expense is divided evenly among its SplitAmong group, or among the whole
// universe when the group is empty. An itemized expense divides each item among
// its own group; an item with an empty group is shared by the universe under
// ShareWithEveryone and left out entirely under LeaveUnassigned. Tax and tip are
// then distributed in proportion to each participant's items subtotal:
//
//	tax_share(p) = tax × subtotal(p) / items_total
//
// Ids that are not part of the universe are ignored. Repeated ids owe one share
// per occurrence, which is how weighted splits are expressed.
func Allocate(expense *models.Expense, universe []string, policy models.UnassignedPolicy) Allocation {
	known := make(map[string]bool, len(universe))
	for _, id := range universe {
		known[id] = true
	}

	alloc := Allocation{
		Splits:    make(map[string]*PersonSplit),
		Allocated: decimal.Zero,
	}

	if !expense.IsItemized() {
		group := owedGroup(expense.SplitAmong, known, universe)
		if len(group) == 0 {
			return alloc
		}
		share := expense.Amount.Div(decimal.NewFromInt(int64(len(group))))
		for _, id := range group {
			split := alloc.split(id)
			split.Subtotal = split.Subtotal.Add(share)
			alloc.Allocated = alloc.Allocated.Add(share)
		}
		for _, split := range alloc.Splits {
			split.Total = split.Subtotal
		}
		return alloc
	}

	itemsTotal := decimal.Zero
	for _, item := range expense.Items {
		fallback := universe
		if policy == models.LeaveUnassigned {
			fallback = nil
		}
		group := owedGroup(item.SplitAmong, known, fallback)
		if len(group) == 0 {
			alloc.Unassigned = append(alloc.Unassigned, item)
			continue
		}

		itemsTotal = itemsTotal.Add(item.Amount)
		share := item.Amount.Div(decimal.NewFromInt(int64(len(group))))

		// Collapse repeated ids into a single line per person.
		var order []string
		counts := make(map[string]int64)
		for _, id := range group {
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
		}
		for _, id := range order {
			amount := share.Mul(decimal.NewFromInt(counts[id]))
			split := alloc.split(id)
			split.Subtotal = split.Subtotal.Add(amount)
			split.Items = append(split.Items, PersonItem{
				ItemID:      item.ID,
				Description: item.Description,
				Amount:      amount,
				SharedWith:  len(group),
			})
		}
	}

	// Without an items subtotal there is nothing to weight tax and tip by.
	distributeExtras := itemsTotal.IsPositive()
	for _, split := range alloc.Splits {
		if distributeExtras {
			split.Tax = expense.Tax.Mul(split.Subtotal).Div(itemsTotal)
			split.Tip = expense.Tip.Mul(split.Subtotal).Div(itemsTotal)
		}
		split.Total = split.Subtotal.Add(split.Tax).Add(split.Tip)
		alloc.Allocated = alloc.Allocated.Add(split.Total)
	}

	return alloc
}

// Shares returns the amount each participant owes for the expense.
func (a Allocation) Shares() map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(a.Splits))
	for id, split := range a.Splits {
		shares[id] = split.Total
	}
	return shares
}

func (a *Allocation) split(id string) *PersonSplit {
	split, ok := a.Splits[id]
	if !ok {
		split = &PersonSplit{
			Subtotal: decimal.Zero,
			Tax:      decimal.Zero,
			Tip:      decimal.Zero,
			Total:    decimal.Zero,
		}
		a.Splits[id] = split
	}
	return split
}

// owedGroup filters group down to known ids, falling back when nothing is left.
func owedGroup(group []string, known map[string]bool, fallback []string) []string {
	out := make([]string, 0, len(group))
	for _, id := range group {
		if known[id] {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
