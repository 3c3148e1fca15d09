package strategy

import (
	"fmt"
	"math"
	"testing"

	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/categorizer"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dinner() []models.Expense {
	return []models.Expense{
		{
			ID:          "e1",
			Description: "Dinner",
			PaidBy:      "A",
			SplitMethod: models.SplitItemized,
			Items: []models.ExpenseItem{
				{ID: "i1", Description: "Pizza", Amount: d("30"), SplitAmong: []string{"A"}},
				{ID: "i2", Description: "IPA", Amount: d("12"), SplitAmong: []string{"A", "B", "C"}},
				{ID: "i3", Description: "Nachos", Amount: d("10")},
			},
			Tax: d("2"),
		},
		{
			ID:          "e2",
			Description: "Taxi",
			Amount:      d("25"),
			PaidBy:      "B",
			SplitAmong:  []string{"B"},
		},
	}
}

func TestEqualSplit(t *testing.T) {
	expenses := dinner()
	everyone := []string{"A", "B", "C"}

	EqualSplit(expenses, everyone)

	for _, e := range expenses {
		assert.Equal(t, everyone, e.SplitAmong)
		for _, item := range e.Items {
			assert.Equal(t, everyone, item.SplitAmong)
		}
	}

	// groups must not alias the input slice
	everyone[0] = "Z"
	assert.Equal(t, "A", expenses[0].Items[0].SplitAmong[0])
}

func TestEqualSplit_Idempotent(t *testing.T) {
	participants := []models.Participant{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	ids := models.ParticipantIDs(participants)

	once := dinner()
	EqualSplit(once, ids)
	twice := dinner()
	EqualSplit(twice, ids)
	EqualSplit(twice, ids)

	assert.Equal(t, once, twice)
	assert.Equal(t,
		calculator.ComputeSettlements(participants, once),
		calculator.ComputeSettlements(participants, twice))
}

func TestWeightedGroup(t *testing.T) {
	ids := []string{"A", "B", "C"}

	tests := []struct {
		name     string
		weights  map[string]float64
		expected []string
	}{
		{"integer weights", map[string]float64{"A": 2, "B": 1, "C": 0}, []string{"A", "A", "B"}},
		{"weights are rounded", map[string]float64{"A": 1.6, "B": 0.4, "C": 1}, []string{"A", "A", "C"}},
		{"negative counts as zero", map[string]float64{"A": -3, "B": 1, "C": 1}, []string{"B", "C"}},
		{"missing weight counts once", map[string]float64{"A": 3}, []string{"A", "A", "A", "B", "C"}},
		{"all zero falls back to everyone", map[string]float64{"A": 0, "B": 0.2, "C": -1}, []string{"A", "B", "C"}},
		{"NaN counts as zero", map[string]float64{"A": math.NaN(), "B": 1, "C": 1}, []string{"B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeightedGroup(ids, tt.weights))
		})
	}
}

func TestWeightedGroup_ClampsLargeWeights(t *testing.T) {
	group := WeightedGroup([]string{"A", "B"}, map[string]float64{"A": 2e6, "B": math.Inf(1)})
	require.Len(t, group, 2*MaxWeight)

	counts := map[string]int{}
	for _, id := range group {
		counts[id]++
	}
	assert.Equal(t, MaxWeight, counts["A"])
	assert.Equal(t, MaxWeight, counts["B"])
}

func TestWeightedSplit_ProportionalShares(t *testing.T) {
	participants := []models.Participant{{ID: "A"}, {ID: "B"}}
	expenses := []models.Expense{{ID: "e1", Amount: d("90"), PaidBy: "B"}}

	WeightedSplit(expenses, []string{"A", "B"}, map[string]float64{"A": 2, "B": 1})

	balances := calculator.CalculateBalances(participants, expenses, models.ShareWithEveryone)
	assert.True(t, balances[0].NetBalance.Equal(d("-60")), "A net = %v", balances[0].NetBalance)
	assert.True(t, balances[1].NetBalance.Equal(d("60")), "B net = %v", balances[1].NetBalance)
}

func TestAutoAssignByName(t *testing.T) {
	participants := []models.Participant{
		{ID: "p1", Name: "Alice"},
		{ID: "p2", Name: "Bob"},
		{ID: "p3", Name: "Person 3"},
		{ID: "p4", Name: "Mary Ann"},
	}
	expenses := []models.Expense{
		{
			ID:          "e1",
			SplitMethod: models.SplitItemized,
			SplitAmong:  []string{"p1", "p2"},
			Items: []models.ExpenseItem{
				{ID: "i1", Description: "Alice burger", Amount: d("10")},
				{ID: "i2", Description: "BOB'S pasta", Amount: d("12"), SplitAmong: []string{"p3"}},
				{ID: "i3", Description: "Alice & Bob dessert", Amount: d("8"), SplitAmong: []string{"p3"}},
				{ID: "i4", Description: "3 Tacos", Amount: d("9")},
				{ID: "i5", Description: "Salad for mary ann", Amount: d("11")},
				{ID: "i6", Description: "Alicent special", Amount: d("7")},
			},
		},
		{
			ID:         "e2",
			Amount:     d("20"),
			SplitAmong: []string{"p1"},
		},
	}

	assigned := AutoAssignByName(expenses, participants)

	assert.Equal(t, 3, assigned)
	items := expenses[0].Items
	assert.Equal(t, []string{"p1"}, items[0].SplitAmong)
	assert.Equal(t, []string{"p2"}, items[1].SplitAmong)
	assert.Equal(t, []string{"p3"}, items[2].SplitAmong, "ambiguous match leaves item untouched")
	assert.Equal(t, []string{"p1", "p2"}, items[3].SplitAmong, "unmatched item takes the expense group")
	assert.Equal(t, []string{"p4"}, items[4].SplitAmong)
	assert.Equal(t, []string{"p1", "p2"}, items[5].SplitAmong, "partial word is not a match")
	assert.Equal(t, []string{"p1"}, expenses[1].SplitAmong)
}

func TestAutoAssignByName_NoExpenseGroup(t *testing.T) {
	expenses := []models.Expense{{
		ID:          "e1",
		SplitMethod: models.SplitItemized,
		Items:       []models.ExpenseItem{{ID: "i1", Description: "Wings", Amount: d("5")}},
	}}

	assigned := AutoAssignByName(expenses, []models.Participant{{ID: "p1", Name: "Alice"}})

	assert.Zero(t, assigned)
	assert.Empty(t, expenses[0].Items[0].SplitAmong)
}

func TestExcludeAlcohol(t *testing.T) {
	categoryOf := categorizer.Default.CategoryOf
	everyone := []string{"A", "B", "C"}

	t.Run("IPA shared by three, B excluded", func(t *testing.T) {
		expenses := dinner()
		changed := ExcludeAlcohol(expenses, []string{"B"}, everyone, categoryOf)

		assert.Equal(t, 1, changed)
		assert.Equal(t, []string{"A", "C"}, expenses[0].Items[1].SplitAmong)

		alloc := calculator.Allocate(&models.Expense{
			PaidBy:      "A",
			SplitMethod: models.SplitItemized,
			Items:       []models.ExpenseItem{expenses[0].Items[1]},
		}, everyone, models.ShareWithEveryone)
		assert.True(t, alloc.Splits["A"].Total.Equal(d("6")))
		assert.True(t, alloc.Splits["C"].Total.Equal(d("6")))
		assert.NotContains(t, alloc.Splits, "B")
	})

	t.Run("never empties a group", func(t *testing.T) {
		expenses := dinner()
		changed := ExcludeAlcohol(expenses, everyone, everyone, categoryOf)

		assert.Zero(t, changed)
		assert.Equal(t, everyone, expenses[0].Items[1].SplitAmong)
	})

	t.Run("unassigned alcohol uses fallback group", func(t *testing.T) {
		expenses := []models.Expense{{
			ID:          "e1",
			SplitMethod: models.SplitItemized,
			Items:       []models.ExpenseItem{{ID: "i1", Description: "House wine", Amount: d("30")}},
		}}
		changed := ExcludeAlcohol(expenses, []string{"C"}, everyone, categoryOf)

		assert.Equal(t, 1, changed)
		assert.Equal(t, []string{"A", "B"}, expenses[0].Items[0].SplitAmong)
	})

	t.Run("explicit category wins over keywords", func(t *testing.T) {
		expenses := []models.Expense{{
			ID:          "e1",
			SplitMethod: models.SplitItemized,
			Items: []models.ExpenseItem{
				{ID: "i1", Description: "Ginger ale", Amount: d("4"), SplitAmong: everyone, Category: models.CategoryFood},
				{ID: "i2", Description: "Special", Amount: d("9"), SplitAmong: everyone, Category: models.CategoryAlcohol},
			},
		}}
		ExcludeAlcohol(expenses, []string{"A"}, everyone, categoryOf)

		assert.Equal(t, everyone, expenses[0].Items[0].SplitAmong)
		assert.Equal(t, []string{"B", "C"}, expenses[0].Items[1].SplitAmong)
	})
}

func TestAssignItems(t *testing.T) {
	t.Run("assign items and flat expenses", func(t *testing.T) {
		expenses := dinner()
		require.NoError(t, AssignItems(expenses, []string{"i1", "i3", "e2"}, []string{"C"}))

		assert.Equal(t, []string{"C"}, expenses[0].Items[0].SplitAmong)
		assert.Equal(t, []string{"C"}, expenses[0].Items[2].SplitAmong)
		assert.Equal(t, []string{"C"}, expenses[1].SplitAmong)
	})

	t.Run("share with everyone", func(t *testing.T) {
		expenses := dinner()
		require.NoError(t, ShareWithEveryone(expenses, []string{"i1"}, []string{"A", "B", "C"}))
		assert.Equal(t, []string{"A", "B", "C"}, expenses[0].Items[0].SplitAmong)
	})

	t.Run("unassign", func(t *testing.T) {
		expenses := dinner()
		require.NoError(t, Unassign(expenses, []string{"i2"}))
		assert.Empty(t, expenses[0].Items[1].SplitAmong)
	})

	t.Run("unknown id changes nothing", func(t *testing.T) {
		expenses := dinner()
		err := AssignItems(expenses, []string{"i1", "nope"}, []string{"C"})

		require.ErrorIs(t, err, ErrItemNotFound)
		assert.Equal(t, dinner(), expenses)
	})

	t.Run("itemized expense id is not a target", func(t *testing.T) {
		expenses := dinner()
		err := AssignItems(expenses, []string{"e1"}, []string{"C"})
		require.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestSplitIntoCopies(t *testing.T) {
	counter := 0
	newID := func() string {
		counter++
		return fmt.Sprintf("c%d", counter)
	}

	tests := []struct {
		amount   string
		n        int
		expected []string
	}{
		{"10.00", 3, []string{"3.34", "3.33", "3.33"}},
		{"0.05", 2, []string{"0.03", "0.02"}},
		{"12", 4, []string{"3", "3", "3", "3"}},
		{"0.01", 3, []string{"0.01", "0", "0"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s into %d", tt.amount, tt.n), func(t *testing.T) {
			expenses := []models.Expense{{
				ID:          "e1",
				SplitMethod: models.SplitItemized,
				Items: []models.ExpenseItem{
					{ID: "before", Amount: d("1")},
					{ID: "i1", Description: "Pitcher", Amount: d(tt.amount), SplitAmong: []string{"A"}, Category: models.CategoryAlcohol},
					{ID: "after", Amount: d("2")},
				},
			}}

			ids, err := SplitIntoCopies(expenses, "i1", tt.n, newID)
			require.NoError(t, err)
			require.Len(t, ids, tt.n)

			items := expenses[0].Items
			require.Len(t, items, tt.n+2)
			assert.Equal(t, "before", items[0].ID)
			assert.Equal(t, "after", items[len(items)-1].ID)

			sum := decimal.Zero
			for k, c := range items[1 : tt.n+1] {
				assert.Equal(t, ids[k], c.ID)
				assert.True(t, c.Amount.Equal(d(tt.expected[k])), "clone %d amount = %v, want %s", k, c.Amount, tt.expected[k])
				assert.Equal(t, fmt.Sprintf("Pitcher (%d/%d)", k+1, tt.n), c.Description)
				assert.Equal(t, []string{"A"}, c.SplitAmong)
				assert.Equal(t, models.CategoryAlcohol, c.Category)
				sum = sum.Add(c.Amount)
			}
			assert.True(t, sum.Equal(d(tt.amount)), "clones sum to %v, want %s", sum, tt.amount)
		})
	}
}

func TestSplitIntoCopies_Errors(t *testing.T) {
	newID := func() string { return "x" }

	_, err := SplitIntoCopies(dinner(), "i1", 0, newID)
	assert.ErrorIs(t, err, ErrInvalidCopyCount)

	_, err = SplitIntoCopies(dinner(), "missing", 2, newID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	for _, amount := range []string{"10.005", "-0.05"} {
		expenses := []models.Expense{{
			ID:          "e1",
			SplitMethod: models.SplitItemized,
			Items:       []models.ExpenseItem{{ID: "i1", Description: "Pitcher", Amount: d(amount)}},
		}}
		_, err = SplitIntoCopies(expenses, "i1", 3, newID)
		assert.ErrorIs(t, err, ErrInvalidCopyAmount, amount)
		require.Len(t, expenses[0].Items, 1)
		assert.True(t, expenses[0].Items[0].Amount.Equal(d(amount)))
	}

	expenses := dinner()
	ids, err := SplitIntoCopies(expenses, "i1", 1, newID)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, ids)
	assert.Equal(t, dinner(), expenses)
}
