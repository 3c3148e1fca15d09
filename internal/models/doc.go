// Package models defines the core domain models for splitchamp.
//
// # Models
//
//   - Participant: a person among whom costs are split
//   - Expense: one bill, either flat (even) or itemized with tax and tip
//   - ExpenseItem: a line of an itemized expense with its own owed-group
//   - Transfer: a derived payment from a debtor to a creditor
//   - Session: the persisted aggregate of participants and expenses
//   - User: a registered account that owns sessions
//
// # Money
//
// Every amount is a decimal.Decimal. Division results keep their full precision
// while balances are accumulated; rounding to cents only happens when transfers
// are produced or when an operation is required to be cent-exact.
//
// # Owed-groups
//
// SplitAmong is the single source of truth for who pays for an expense or item.
// It is a list, not a set: the weighted split repeats an id once per unit of
// weight and the allocator divides per occurrence.
package models
