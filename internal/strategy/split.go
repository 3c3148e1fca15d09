package strategy

import (
	"math"

	"github.com/mmynk/splitchamp/internal/models"
)

// MaxWeight is the largest weight WeightedGroup honors. Larger weights are
// clamped to it.
const MaxWeight = 100

// EqualSplit sets the owed-group of every expense, and of every item of an
// itemized expense, to ids.
func EqualSplit(expenses []models.Expense, ids []string) {
	for i := range expenses {
		expense := &expenses[i]
		expense.SplitAmong = clone(ids)
		for j := range expense.Items {
			expense.Items[j].SplitAmong = clone(ids)
		}
	}
}

// WeightedSplit is EqualSplit with each id repeated round(weight) times.
//
// Ids without a weight count once. Negative or NaN weights count as zero and
// weights above MaxWeight count as MaxWeight. When every weight rounds to zero
// the plain id list is used instead.
func WeightedSplit(expenses []models.Expense, ids []string, weights map[string]float64) {
	EqualSplit(expenses, WeightedGroup(ids, weights))
}

// WeightedGroup expands ids into the multiset used by WeightedSplit.
func WeightedGroup(ids []string, weights map[string]float64) []string {
	var group []string
	for _, id := range ids {
		w, ok := weights[id]
		if !ok {
			w = 1
		}
		if math.IsNaN(w) {
			w = 0
		}
		n := int(math.Round(math.Min(math.Max(w, 0), MaxWeight)))
		for range n {
			group = append(group, id)
		}
	}
	if len(group) == 0 {
		return clone(ids)
	}
	return group
}

func clone(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
