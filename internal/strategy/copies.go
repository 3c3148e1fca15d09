package strategy

import (
	"fmt"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

// SplitIntoCopies replaces an item with n clones whose amounts add up to the
// original to the cent.
//
// Each clone gets floor(cents/n) cents and the first cents mod n clones get one
// more. Clones keep the owed-group and category, get a fresh id from newID and
// an "(i/n)" suffix on the description. Splitting into one copy changes nothing.
// Negative amounts and amounts with sub-cent digits return ErrInvalidCopyAmount.
// It returns the ids of the items that now stand for the original.
func SplitIntoCopies(expenses []models.Expense, itemID string, n int, newID func() string) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCopyCount, n)
	}

	for i := range expenses {
		expense := &expenses[i]
		for j, item := range expense.Items {
			if item.ID != itemID {
				continue
			}
			if n == 1 {
				return []string{item.ID}, nil
			}
			if item.Amount.IsNegative() || !item.Amount.Shift(2).IsInteger() {
				return nil, fmt.Errorf("%w: %s is %s", ErrInvalidCopyAmount, item.ID, item.Amount)
			}

			clones := copiesOf(item, n, newID)
			items := make([]models.ExpenseItem, 0, len(expense.Items)-1+n)
			items = append(items, expense.Items[:j]...)
			items = append(items, clones...)
			items = append(items, expense.Items[j+1:]...)
			expense.Items = items

			ids := make([]string, n)
			for k, c := range clones {
				ids[k] = c.ID
			}
			return ids, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

func copiesOf(item models.ExpenseItem, n int, newID func() string) []models.ExpenseItem {
	cents := item.Amount.Shift(2).IntPart()
	base, extra := cents/int64(n), cents%int64(n)

	clones := make([]models.ExpenseItem, n)
	for k := range n {
		c := base
		if int64(k) < extra {
			c++
		}
		clones[k] = models.ExpenseItem{
			ID:          newID(),
			Description: fmt.Sprintf("%s (%d/%d)", item.Description, k+1, n),
			Amount:      decimal.New(c, -2),
			SplitAmong:  clone(item.SplitAmong),
			Category:    item.Category,
		}
	}
	return clones
}
