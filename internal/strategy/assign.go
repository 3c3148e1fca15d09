package strategy

import (
	"fmt"

	"github.com/mmynk/splitchamp/internal/models"
)

// AssignItems sets the owed-group of each target to group.
//
// A target is an item id or the id of an expense without items. All targets are
// checked before anything changes; an unknown id returns ErrItemNotFound and
// leaves the expenses untouched.
func AssignItems(expenses []models.Expense, targets []string, group []string) error {
	groups, err := resolveTargets(expenses, targets)
	if err != nil {
		return err
	}
	for _, g := range groups {
		*g = clone(group)
	}
	return nil
}

// ShareWithEveryone assigns each target to every participant.
func ShareWithEveryone(expenses []models.Expense, targets []string, everyone []string) error {
	return AssignItems(expenses, targets, everyone)
}

// Unassign clears the owed-group of each target.
func Unassign(expenses []models.Expense, targets []string) error {
	return AssignItems(expenses, targets, nil)
}

// resolveTargets returns a pointer to the owed-group of every target.
func resolveTargets(expenses []models.Expense, targets []string) ([]*[]string, error) {
	index := make(map[string]*[]string)
	for i := range expenses {
		expense := &expenses[i]
		if len(expense.Items) == 0 {
			index[expense.ID] = &expense.SplitAmong
		}
		for j := range expense.Items {
			index[expense.Items[j].ID] = &expense.Items[j].SplitAmong
		}
	}

	groups := make([]*[]string, 0, len(targets))
	for _, id := range targets {
		g, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
