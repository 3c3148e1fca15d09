package categorizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword lists used to classify receipt lines.
// Keywords are matched case-insensitively by substring.
type Vocabulary struct {
	Tax       []string `yaml:"tax"`
	Tip       []string `yaml:"tip"`
	Ignore    []string `yaml:"ignore"`
	Alcohol   []string `yaml:"alcohol"`
	Appetizer []string `yaml:"appetizer"`
}

// vocabularyFile is the on-disk form of a Vocabulary.
// Lists extend the defaults unless Replace is set.
type vocabularyFile struct {
	Replace    bool `yaml:"replace"`
	Vocabulary `yaml:",inline"`
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Tax:    []string{"tax", "hst", "gst", "pst", "vat", "sales tax"},
		Tip:    []string{"tip", "gratuity", "service charge", "svc"},
		Ignore: []string{"change", "cash", "card", "auth", "balance", "subtotal"},
		Alcohol: []string{
			"beer", "ipa", "lager", "ale", "stout", "cider",
			"wine", "rosé", "rose", "cabernet", "merlot", "pinot", "sauvignon", "riesling", "prosecco", "champagne",
			"vodka", "tequila", "whiskey", "whisky", "bourbon", "rum", "sake", "soju",
			"cocktail", "margarita", "mojito", "martini", "negroni", "old fashioned", "spritz",
		},
		Appetizer: []string{
			"appetizer", "app", "nacho", "nachos", "wings", "calamari", "fries", "chips", "dip",
			"edamame", "spring roll", "dumpling", "garlic bread", "hummus",
		},
	}
}

// LoadVocabulary reads keyword lists from a YAML file.
//
// Example:
//
//	replace: false
//	alcohol: [pilsner, mezcal]
//	appetizer: [bruschetta]
//
// Without replace the lists are appended to DefaultVocabulary.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary is LoadVocabulary for in-memory YAML.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	custom := file.Vocabulary.normalized()
	if file.Replace {
		return custom, nil
	}

	v := DefaultVocabulary()
	v.Tax = append(v.Tax, custom.Tax...)
	v.Tip = append(v.Tip, custom.Tip...)
	v.Ignore = append(v.Ignore, custom.Ignore...)
	v.Alcohol = append(v.Alcohol, custom.Alcohol...)
	v.Appetizer = append(v.Appetizer, custom.Appetizer...)
	return v, nil
}

// normalized lower-cases and trims every keyword, dropping blanks.
func (v Vocabulary) normalized() Vocabulary {
	return Vocabulary{
		Tax:       normalizeKeywords(v.Tax),
		Tip:       normalizeKeywords(v.Tip),
		Ignore:    normalizeKeywords(v.Ignore),
		Alcohol:   normalizeKeywords(v.Alcohol),
		Appetizer: normalizeKeywords(v.Appetizer),
	}
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
