package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordSets holds the classifier's keyword configuration, one term set
// per category. The sets are data, not code, so they can be tuned (or the
// whole classifier swapped for a learned model) without touching callers.
type KeywordSets struct {
	Legal       []string `yaml:"legal"`
	Counselling []string `yaml:"counselling"`
}

// DefaultKeywordSets returns the compiled-in term sets.
func DefaultKeywordSets() KeywordSets {
	return KeywordSets{
		Legal: []string{
			"law", "legal", "court", "police", "rights", "divorce", "custody",
			"judge", "lawyer", "fir", "complaint", "case", "protection order",
		},
		Counselling: []string{
			"sad", "depressed", "scared", "fear", "anxiety", "cry", "emotional",
			"trauma", "help", "suicide", "hurt", "alone", "hopeless", "abuse",
		},
	}
}

// LoadKeywordSets reads keyword sets from a YAML file. An empty path
// returns the defaults.
func LoadKeywordSets(path string) (KeywordSets, error) {
	if path == "" {
		return DefaultKeywordSets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordSets{}, fmt.Errorf("read keyword sets: %w", err)
	}

	var sets KeywordSets
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return KeywordSets{}, fmt.Errorf("parse keyword sets: %w", err)
	}

	if len(sets.Legal) == 0 || len(sets.Counselling) == 0 {
		return KeywordSets{}, fmt.Errorf("keyword sets must contain both legal and counselling terms")
	}

	return sets, nil
}
