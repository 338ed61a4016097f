package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/models"
)

// Rationale sentences shown to the victim with the recommendation.
const (
	rationaleCounsellor = "Based on your emotional distress, we recommend speaking with a counsellor first."
	rationaleLegal      = "It seems you have legal concerns. We recommend speaking with a legal advisor."
)

// Classifier maps a free-text situation description to a recommended
// service category. Implementations must be deterministic for the same
// input and free of side effects, so the algorithm can be swapped without
// touching callers.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.ClassificationResult, error)
}

// keywordClassifier scores the input against two fixed keyword sets.
// One point per distinct keyword found as a substring; occurrences beyond
// the first do not add points. Legal wins only on a strict majority.
// Ties (including zero/zero) recommend the counsellor, preferring the
// supportive path when the signal is absent or ambiguous.
type keywordClassifier struct {
	sets KeywordSets
}

// NewKeywordClassifier creates the default classifier over the given
// keyword sets.
func NewKeywordClassifier(sets KeywordSets) Classifier {
	return &keywordClassifier{sets: sets}
}

// Classify scores the text and returns the recommendation.
func (c *keywordClassifier) Classify(_ context.Context, text string) (*models.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("situation description is empty: %w", apperrors.ErrInvalidInput)
	}

	lower := strings.ToLower(text)

	breakdown := models.ScoreBreakdown{
		LegalScore:      countMatches(lower, c.sets.Legal),
		CounsellorScore: countMatches(lower, c.sets.Counselling),
	}

	result := &models.ClassificationResult{
		RecommendedCategory: models.CategoryCounsellor,
		Rationale:           rationaleCounsellor,
		ScoreBreakdown:      breakdown,
	}
	if breakdown.LegalScore > breakdown.CounsellorScore {
		result.RecommendedCategory = models.CategoryLegal
		result.Rationale = rationaleLegal
	}

	return result, nil
}

func countMatches(lower string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			count++
		}
	}
	return count
}

// Ensure keywordClassifier implements Classifier at compile time.
var _ Classifier = (*keywordClassifier)(nil)
