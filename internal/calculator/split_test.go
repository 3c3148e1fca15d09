package calculator

import (
	"testing"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// near reports whether got is within 0.000001 of want.
func near(got decimal.Decimal, want string) bool {
	return got.Sub(dec(want)).Abs().LessThan(dec("0.000001"))
}

func TestAllocate(t *testing.T) {
	everyone := []string{"A", "B", "C"}

	tests := []struct {
		name         string
		expense      models.Expense
		universe     []string
		policy       models.UnassignedPolicy
		validateFunc func(t *testing.T, alloc Allocation)
	}{
		{
			name: "flat expense split between two",
			expense: models.Expense{
				Amount:     dec("60"),
				PaidBy:     "A",
				SplitAmong: []string{"A", "B"},
			},
			universe: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc Allocation) {
				for _, id := range []string{"A", "B"} {
					if !near(alloc.Splits[id].Total, "30") {
						t.Errorf("%s total = %v, want 30", id, alloc.Splits[id].Total)
					}
				}
				if !near(alloc.Allocated, "60") {
					t.Errorf("allocated = %v, want 60", alloc.Allocated)
				}
			},
		},
		{
			name: "flat expense with empty group uses everyone",
			expense: models.Expense{
				Amount: dec("90"),
				PaidBy: "A",
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if len(alloc.Splits) != 3 {
					t.Fatalf("expected 3 splits, got %d", len(alloc.Splits))
				}
				for _, id := range everyone {
					if !near(alloc.Splits[id].Total, "30") {
						t.Errorf("%s total = %v, want 30", id, alloc.Splits[id].Total)
					}
				}
			},
		},
		{
			name: "no participants gives empty allocation",
			expense: models.Expense{
				Amount: dec("10"),
			},
			universe: nil,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if len(alloc.Splits) != 0 {
					t.Errorf("expected no splits, got %d", len(alloc.Splits))
				}
				if !alloc.Allocated.IsZero() {
					t.Errorf("allocated = %v, want 0", alloc.Allocated)
				}
			},
		},
		{
			name: "itemized with proportional tax and tip",
			expense: models.Expense{
				PaidBy:      "A",
				SplitMethod: models.SplitItemized,
				Items: []models.ExpenseItem{
					{ID: "i1", Description: "Pizza", Amount: dec("30"), SplitAmong: []string{"A", "B"}},
					{ID: "i2", Description: "Steak", Amount: dec("20"), SplitAmong: []string{"C"}},
				},
				Tax: dec("5"),
				Tip: dec("5"),
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				// A, B: subtotal 15, tax 1.5, tip 1.5 = 18
				// C: subtotal 20, tax 2, tip 2 = 24
				want := map[string]string{"A": "18", "B": "18", "C": "24"}
				for id, total := range want {
					if !near(alloc.Splits[id].Total, total) {
						t.Errorf("%s total = %v, want %s", id, alloc.Splits[id].Total, total)
					}
				}
				if !near(alloc.Splits["A"].Tax, "1.5") {
					t.Errorf("A tax = %v, want 1.5", alloc.Splits["A"].Tax)
				}
				if !near(alloc.Splits["C"].Tip, "2") {
					t.Errorf("C tip = %v, want 2", alloc.Splits["C"].Tip)
				}
				if !near(alloc.Allocated, "60") {
					t.Errorf("allocated = %v, want 60", alloc.Allocated)
				}
				if len(alloc.Splits["A"].Items) != 1 || alloc.Splits["A"].Items[0].SharedWith != 2 {
					t.Errorf("A items = %+v, want one item shared with 2", alloc.Splits["A"].Items)
				}
			},
		},
		{
			name: "unassigned item shared with everyone by default",
			expense: models.Expense{
				PaidBy:      "A",
				SplitMethod: models.SplitItemized,
				Items: []models.ExpenseItem{
					{ID: "i1", Description: "Nachos", Amount: dec("12")},
				},
			},
			universe: everyone,
			policy:   models.ShareWithEveryone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				for _, id := range everyone {
					if !near(alloc.Splits[id].Total, "4") {
						t.Errorf("%s total = %v, want 4", id, alloc.Splits[id].Total)
					}
				}
				if len(alloc.Unassigned) != 0 {
					t.Errorf("expected no unassigned items, got %d", len(alloc.Unassigned))
				}
			},
		},
		{
			name: "unassigned item left out when policy says so",
			expense: models.Expense{
				PaidBy:      "A",
				SplitMethod: models.SplitItemized,
				Items: []models.ExpenseItem{
					{ID: "i1", Description: "Burger", Amount: dec("10"), SplitAmong: []string{"B"}},
					{ID: "i2", Description: "Nachos", Amount: dec("12")},
				},
				Tax: dec("1"),
			},
			universe: everyone,
			policy:   models.LeaveUnassigned,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if len(alloc.Unassigned) != 1 || alloc.Unassigned[0].ID != "i2" {
					t.Fatalf("unassigned = %+v, want [i2]", alloc.Unassigned)
				}
				if !near(alloc.Splits["B"].Total, "11") {
					t.Errorf("B total = %v, want 11", alloc.Splits["B"].Total)
				}
				if _, ok := alloc.Splits["C"]; ok {
					t.Error("C should owe nothing")
				}
				if !near(alloc.Allocated, "11") {
					t.Errorf("allocated = %v, want 11", alloc.Allocated)
				}
			},
		},
		{
			name: "zero items total does not distribute tax",
			expense: models.Expense{
				PaidBy:      "A",
				SplitMethod: models.SplitItemized,
				Items: []models.ExpenseItem{
					{ID: "i1", Description: "Free water", Amount: dec("0"), SplitAmong: []string{"A", "B"}},
				},
				Tax: dec("3"),
				Tip: dec("2"),
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				for id, split := range alloc.Splits {
					if !split.Total.IsZero() {
						t.Errorf("%s total = %v, want 0", id, split.Total)
					}
				}
				if !alloc.Allocated.IsZero() {
					t.Errorf("allocated = %v, want 0", alloc.Allocated)
				}
			},
		},
		{
			name: "unknown ids are ignored",
			expense: models.Expense{
				Amount:     dec("20"),
				PaidBy:     "A",
				SplitAmong: []string{"A", "ghost"},
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if !near(alloc.Splits["A"].Total, "20") {
					t.Errorf("A total = %v, want 20", alloc.Splits["A"].Total)
				}
				if _, ok := alloc.Splits["ghost"]; ok {
					t.Error("unknown id should not owe anything")
				}
			},
		},
		{
			name: "repeated ids owe once per occurrence",
			expense: models.Expense{
				Amount:     dec("30"),
				PaidBy:     "A",
				SplitAmong: []string{"A", "A", "B"},
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if !near(alloc.Splits["A"].Total, "20") {
					t.Errorf("A total = %v, want 20", alloc.Splits["A"].Total)
				}
				if !near(alloc.Splits["B"].Total, "10") {
					t.Errorf("B total = %v, want 10", alloc.Splits["B"].Total)
				}
			},
		},
		{
			name: "itemized without items is divided like a flat expense",
			expense: models.Expense{
				Amount:      dec("40"),
				PaidBy:      "A",
				SplitAmong:  []string{"A", "B"},
				SplitMethod: models.SplitItemized,
				Tax:         dec("10"),
			},
			universe: everyone,
			validateFunc: func(t *testing.T, alloc Allocation) {
				if !near(alloc.Splits["B"].Total, "20") {
					t.Errorf("B total = %v, want 20", alloc.Splits["B"].Total)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.policy
			if policy == "" {
				policy = models.ShareWithEveryone
			}
			alloc := Allocate(&tt.expense, tt.universe, policy)
			tt.validateFunc(t, alloc)
		})
	}
}

func TestAllocate_KeepsPrecision(t *testing.T) {
	expense := models.Expense{
		Amount:     dec("10"),
		PaidBy:     "A",
		SplitAmong: []string{"A", "B", "C"},
	}
	alloc := Allocate(&expense, []string{"A", "B", "C"}, models.ShareWithEveryone)

	// 10 / 3 must not be rounded to 3.33 while balances accumulate
	if alloc.Splits["A"].Total.Equal(dec("3.33")) {
		t.Errorf("share was rounded to cents: %v", alloc.Splits["A"].Total)
	}
	sum := decimal.Zero
	for _, split := range alloc.Splits {
		sum = sum.Add(split.Total)
	}
	if !sum.Equal(alloc.Allocated) {
		t.Errorf("shares sum %v != allocated %v", sum, alloc.Allocated)
	}
}
