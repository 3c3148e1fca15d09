package strategy

import (
	"slices"

	"github.com/mmynk/splitchamp/internal/models"
)

// CategoryFunc returns the category of an item.
type CategoryFunc func(item *models.ExpenseItem) models.Category

// ExcludeAlcohol removes the excluded participants from the owed-group of every
// alcohol item.
//
// Items with an empty group are treated as owed by fallback. An item is skipped
// when the removal would leave nobody to pay for it. It returns the number of
// items changed.
func ExcludeAlcohol(expenses []models.Expense, exclude []string, fallback []string, categoryOf CategoryFunc) int {
	if len(exclude) == 0 {
		return 0
	}

	changed := 0
	for i := range expenses {
		for j := range expenses[i].Items {
			item := &expenses[i].Items[j]
			if categoryOf(item) != models.CategoryAlcohol {
				continue
			}

			group := item.SplitAmong
			if len(group) == 0 {
				group = fallback
			}
			kept := make([]string, 0, len(group))
			for _, id := range group {
				if !slices.Contains(exclude, id) {
					kept = append(kept, id)
				}
			}

			// Never leave a charge without payers.
			if len(kept) == 0 || len(kept) == len(item.SplitAmong) {
				continue
			}
			item.SplitAmong = kept
			changed++
		}
	}
	return changed
}
