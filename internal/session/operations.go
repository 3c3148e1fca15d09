package session

import (
	"fmt"

	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/mmynk/splitchamp/internal/receipt"
	"github.com/mmynk/splitchamp/internal/strategy"
	"github.com/shopspring/decimal"
)

// ApplyEqualSplit makes every participant owe an equal share of everything.
func (s *Session) ApplyEqualSplit() {
	strategy.EqualSplit(s.state.Expenses, s.everyone())
	s.changed()
}

// ApplyWeightedSplit makes participants owe in proportion to their rounded weight.
func (s *Session) ApplyWeightedSplit(weights map[string]float64) {
	strategy.WeightedSplit(s.state.Expenses, s.everyone(), weights)
	s.changed()
}

// AutoAssignItemsByName assigns items whose description names exactly one
// participant. It returns how many items were assigned.
func (s *Session) AutoAssignItemsByName() int {
	n := strategy.AutoAssignByName(s.state.Expenses, s.state.Participants)
	s.changed()
	return n
}

// AssignItemsTo makes one participant the sole owner of each target item.
func (s *Session) AssignItemsTo(targets []string, participantID string) error {
	if s.participantIndex(participantID) < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	if err := strategy.AssignItems(s.state.Expenses, targets, []string{participantID}); err != nil {
		return err
	}
	s.changed()
	return nil
}

// ShareItemsWithEveryone makes every participant share each target item.
func (s *Session) ShareItemsWithEveryone(targets []string) error {
	if err := strategy.ShareWithEveryone(s.state.Expenses, targets, s.everyone()); err != nil {
		return err
	}
	s.changed()
	return nil
}

// UnassignItems clears the owed-group of each target item.
func (s *Session) UnassignItems(targets []string) error {
	if err := strategy.Unassign(s.state.Expenses, targets); err != nil {
		return err
	}
	s.changed()
	return nil
}

// ExcludeAlcoholFor takes the given participants off every alcohol item.
// It returns how many items changed.
func (s *Session) ExcludeAlcoholFor(participantIDs []string) (int, error) {
	for _, id := range participantIDs {
		if s.participantIndex(id) < 0 {
			return 0, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
		}
	}

	var fallback []string
	if s.state.Policy == models.ShareWithEveryone {
		fallback = s.everyone()
	}
	n := strategy.ExcludeAlcohol(s.state.Expenses, participantIDs, fallback, s.categorizer.CategoryOf)
	s.changed()
	return n, nil
}

// SplitItemIntoCopies replaces an item with count cent-exact copies and
// returns their ids.
func (s *Session) SplitItemIntoCopies(itemID string, count int) ([]string, error) {
	ids, err := strategy.SplitIntoCopies(s.state.Expenses, itemID, count, s.newID)
	if err != nil {
		return nil, err
	}
	s.changed()
	return ids, nil
}

// ImportReceipt replaces the expenses with the contents of a parsed receipt.
// Imported items start unassigned.
func (s *Session) ImportReceipt(r *receipt.Receipt, opts receipt.ImportOptions) ([]models.Expense, error) {
	expenses, err := receipt.ToExpenses(r, s.state.Participants, opts, s.newID)
	if err != nil {
		return nil, err
	}
	s.SetExpenses(expenses, SetOptions{Overwrite: true})
	return s.Expenses(), nil
}

// CategorizeItems fills in missing item categories.
func (s *Session) CategorizeItems() {
	s.state.Expenses = s.categorizer.CategorizeExpensesIfMissing(s.state.Expenses)
	s.changed()
}

// Breakdown returns what each participant owes for one expense.
func (s *Session) Breakdown(expenseID string) (calculator.Allocation, error) {
	idx := s.expenseIndex(expenseID)
	if idx < 0 {
		return calculator.Allocation{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, expenseID)
	}
	return calculator.Allocate(&s.state.Expenses[idx], s.everyone(), s.state.Policy), nil
}

// Discrepancy returns how far an itemized expense is from its items plus tax and tip.
func (s *Session) Discrepancy(expenseID string) (decimal.Decimal, error) {
	idx := s.expenseIndex(expenseID)
	if idx < 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrExpenseNotFound, expenseID)
	}
	return calculator.ItemizationDiscrepancy(&s.state.Expenses[idx]), nil
}

// UnassignedItems lists chargeable items nobody has been assigned to.
// Tax, tip and ignored lines are not counted.
func (s *Session) UnassignedItems() []models.ExpenseItem {
	var out []models.ExpenseItem
	for i := range s.state.Expenses {
		for j := range s.state.Expenses[i].Items {
			item := &s.state.Expenses[i].Items[j]
			if len(item.SplitAmong) > 0 || !s.categorizer.CategoryOf(item).IsCharge() {
				continue
			}
			out = append(out, *item)
		}
	}
	return out
}

// Totals summarizes a session.
type Totals struct {
	// Spent is the sum of every expense total.
	Spent decimal.Decimal
	// ToSettle is the sum of all transfers.
	ToSettle decimal.Decimal
}

// Totals returns what was spent and how much money has to change hands.
func (s *Session) Totals() Totals {
	spent := decimal.Zero
	for i := range s.state.Expenses {
		spent = spent.Add(s.state.Expenses[i].Total())
	}
	return Totals{
		Spent:    spent,
		ToSettle: models.TransfersTotal(s.transfers),
	}
}

func (s *Session) everyone() []string {
	return models.ParticipantIDs(s.state.Participants)
}
