package categorizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		expected    models.Category
	}{
		{"IPA", models.CategoryAlcohol},
		{"House Red Wine", models.CategoryAlcohol},
		{"Old Fashioned", models.CategoryAlcohol},
		{"Sales Tax", models.CategoryTax},
		{"HST 13%", models.CategoryTax},
		{"Tip 18%", models.CategoryTip},
		{"Service Charge", models.CategoryTip},
		{"Cash tendered", models.CategoryIgnore},
		{"SUBTOTAL", models.CategoryIgnore},
		{"Nachos", models.CategoryAppetizer},
		{"Chicken Wings", models.CategoryAppetizer},
		{"Burger", models.CategoryFood},
		{"Margherita Pizza", models.CategoryFood},
		{"", models.CategoryFood},
		{"   ", models.CategoryFood},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.description))
		})
	}
}

func TestCategorize_Precedence(t *testing.T) {
	// tax wins over alcohol when both match
	assert.Equal(t, models.CategoryTax, Categorize("Beer tax"))
	// tip wins over ignore
	assert.Equal(t, models.CategoryTip, Categorize("Card tip"))
	// alcohol wins over appetizer
	assert.Equal(t, models.CategoryAlcohol, Categorize("Beer and fries"))
}

func TestCategorizeExpensesIfMissing(t *testing.T) {
	expenses := []models.Expense{
		{
			ID:          "e1",
			SplitMethod: models.SplitItemized,
			Items: []models.ExpenseItem{
				{ID: "i1", Description: "Lager", Amount: decimal.NewFromInt(7)},
				{ID: "i2", Description: "Lager", Amount: decimal.NewFromInt(7), Category: models.CategoryFood},
				{ID: "i3", Description: "Fries", Amount: decimal.NewFromInt(5)},
			},
		},
		{
			ID:     "e2",
			Amount: decimal.NewFromInt(20),
			Items: []models.ExpenseItem{
				{ID: "i4", Description: "Wine"},
			},
		},
	}

	out := CategorizeExpensesIfMissing(expenses)

	require.Len(t, out, 2)
	assert.Equal(t, models.CategoryAlcohol, out[0].Items[0].Category)
	assert.Equal(t, models.CategoryFood, out[0].Items[1].Category, "existing category must be kept")
	assert.Equal(t, models.CategoryAppetizer, out[0].Items[2].Category)
	assert.Empty(t, out[1].Items[0].Category, "flat expenses are left alone")

	assert.Empty(t, expenses[0].Items[0].Category, "input must not be modified")
}

func TestParseVocabulary(t *testing.T) {
	t.Run("extends defaults", func(t *testing.T) {
		v, err := ParseVocabulary([]byte("alcohol: [Mezcal]\nappetizer: [' bruschetta ']\n"))
		require.NoError(t, err)

		c := New(v)
		assert.Equal(t, models.CategoryAlcohol, c.Categorize("Mezcal flight"))
		assert.Equal(t, models.CategoryAlcohol, c.Categorize("IPA"))
		assert.Equal(t, models.CategoryAppetizer, c.Categorize("Bruschetta"))
	})

	t.Run("replaces defaults", func(t *testing.T) {
		v, err := ParseVocabulary([]byte("replace: true\nalcohol: [mezcal]\n"))
		require.NoError(t, err)

		c := New(v)
		assert.Equal(t, models.CategoryAlcohol, c.Categorize("mezcal"))
		assert.Equal(t, models.CategoryFood, c.Categorize("IPA"))
		assert.Equal(t, models.CategoryFood, c.Categorize("Sales tax"))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseVocabulary([]byte("alcohol: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tip: [pourboire]\n"), 0o600))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Contains(t, v.Tip, "pourboire")
	assert.Contains(t, v.Tip, "gratuity")

	_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCategoryOf(t *testing.T) {
	c := New(DefaultVocabulary())
	assert.Equal(t, models.CategoryFood, c.CategoryOf(&models.ExpenseItem{Description: "IPA", Category: models.CategoryFood}))
	assert.Equal(t, models.CategoryAlcohol, c.CategoryOf(&models.ExpenseItem{Description: "IPA"}))
}
