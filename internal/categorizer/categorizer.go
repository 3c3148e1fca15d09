// Package categorizer classifies receipt lines by keyword.
package categorizer

import (
	"log/slog"
	"strings"

	"github.com/mmynk/splitchamp/internal/models"
)

type rule struct {
	category models.Category
	keywords []string
}

// Categorizer assigns a category to an item description.
// Rules are checked in a fixed order: tax, tip, ignore, alcohol, appetizer.
// Anything else is food.
type Categorizer struct {
	rules []rule
}

// New creates a Categorizer for the given vocabulary.
func New(v Vocabulary) *Categorizer {
	v = v.normalized()
	return &Categorizer{
		rules: []rule{
			{category: models.CategoryTax, keywords: v.Tax},
			{category: models.CategoryTip, keywords: v.Tip},
			{category: models.CategoryIgnore, keywords: v.Ignore},
			{category: models.CategoryAlcohol, keywords: v.Alcohol},
			{category: models.CategoryAppetizer, keywords: v.Appetizer},
		},
	}
}

// Default uses DefaultVocabulary.
var Default = New(DefaultVocabulary())

// Categorize returns the category of description using the Default categorizer.
func Categorize(description string) models.Category {
	return Default.Categorize(description)
}

// CategorizeExpensesIfMissing fills in missing item categories using the Default categorizer.
func CategorizeExpensesIfMissing(expenses []models.Expense) []models.Expense {
	return Default.CategorizeExpensesIfMissing(expenses)
}

// Categorize returns the first category whose keyword appears in the lower-cased,
// trimmed description. An empty description is food.
func (c *Categorizer) Categorize(description string) models.Category {
	d := strings.ToLower(strings.TrimSpace(description))
	if d == "" {
		return models.CategoryFood
	}

	for _, r := range c.rules {
		for _, k := range r.keywords {
			if strings.Contains(d, k) {
				slog.Debug("Item categorized", "description", description, "keyword", k, "category", r.category)
				return r.category
			}
		}
	}
	return models.CategoryFood
}

// CategorizeExpensesIfMissing returns a copy of expenses in which every item of
// an itemized expense has a category. Existing categories are kept and the
// input is not modified.
func (c *Categorizer) CategorizeExpensesIfMissing(expenses []models.Expense) []models.Expense {
	out := models.CloneExpenses(expenses)
	for i := range out {
		if out[i].SplitMethod != models.SplitItemized {
			continue
		}
		for j := range out[i].Items {
			item := &out[i].Items[j]
			if item.Category == "" {
				item.Category = c.Categorize(item.Description)
			}
		}
	}
	return out
}

// CategoryOf returns the item's own category, falling back to keyword matching.
func (c *Categorizer) CategoryOf(item *models.ExpenseItem) models.Category {
	if item.Category != "" {
		return item.Category
	}
	return c.Categorize(item.Description)
}
