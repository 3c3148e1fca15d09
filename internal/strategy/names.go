package strategy

import (
	"strings"
	"unicode"

	"github.com/mmynk/splitchamp/internal/models"
)

// AutoAssignByName assigns items of itemized expenses to the participant named
// in their description.
//
// A participant matches when one of their name tokens equals a description token
// (case-insensitive), or when their full multi-word name appears in the
// description. Numeric and single-character name tokens are ignored, so the
// placeholder "Person 1" never matches "1 Burger". An item is assigned only when
// exactly one participant matches. Items still unassigned afterwards take the
// expense's own group, if it has one.
//
// It returns the number of items assigned by name.
func AutoAssignByName(expenses []models.Expense, participants []models.Participant) int {
	matchers := make([]nameMatcher, 0, len(participants))
	for _, p := range participants {
		if m, ok := newNameMatcher(p); ok {
			matchers = append(matchers, m)
		}
	}

	assigned := 0
	for i := range expenses {
		expense := &expenses[i]
		if !expense.IsItemized() {
			continue
		}
		for j := range expense.Items {
			item := &expense.Items[j]
			if id, ok := uniqueMatch(matchers, item.Description); ok {
				item.SplitAmong = []string{id}
				assigned++
			}
		}
		for j := range expense.Items {
			item := &expense.Items[j]
			if len(item.SplitAmong) == 0 && len(expense.SplitAmong) > 0 {
				item.SplitAmong = clone(expense.SplitAmong)
			}
		}
	}
	return assigned
}

type nameMatcher struct {
	id       string
	fullName string
	tokens   []string
}

func newNameMatcher(p models.Participant) (nameMatcher, bool) {
	m := nameMatcher{id: p.ID}
	words := tokenize(p.Name)
	for _, w := range words {
		if len([]rune(w)) < 2 || isNumeric(w) {
			continue
		}
		m.tokens = append(m.tokens, w)
	}
	if len(words) > 1 {
		m.fullName = strings.Join(words, " ")
	}
	return m, len(m.tokens) > 0
}

func (m nameMatcher) matches(desc string, descTokens map[string]bool) bool {
	if m.fullName != "" && strings.Contains(desc, m.fullName) {
		return true
	}
	for _, t := range m.tokens {
		if descTokens[t] {
			return true
		}
	}
	return false
}

func uniqueMatch(matchers []nameMatcher, description string) (string, bool) {
	words := tokenize(description)
	desc := strings.Join(words, " ")
	descTokens := make(map[string]bool, len(words))
	for _, w := range words {
		descTokens[w] = true
	}

	match := ""
	for _, m := range matchers {
		if !m.matches(desc, descTokens) || m.id == match {
			continue
		}
		if match != "" {
			return "", false
		}
		match = m.id
	}
	return match, match != ""
}

// tokenize lower-cases s and splits it on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
