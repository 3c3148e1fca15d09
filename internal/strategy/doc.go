// Package strategy rewrites who owes what on a list of expenses before balances
// are computed. Every function mutates the expenses in place and is safe to
// apply repeatedly.
package strategy

import "errors"

var (
	// ErrItemNotFound is returned when a target id names neither an item nor an expense.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidCopyCount is returned when an item is split into fewer than one copy.
	ErrInvalidCopyCount = errors.New("copy count must be at least 1")

	// ErrInvalidCopyAmount is returned when an item to split is negative or not
	// a whole number of cents.
	ErrInvalidCopyAmount = errors.New("only non-negative whole-cent amounts can be split")
)
