package services

import (
	"math/rand"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/models"
)

// Selector chooses one professional from a candidate list. It is a
// strategy interface so load-aware balancing can replace the default
// without touching the allocator's control flow.
type Selector interface {
	Pick(candidates []models.Professional) (*models.Professional, error)
}

// uniformRandomSelector picks uniformly at random.
type uniformRandomSelector struct{}

// NewUniformRandomSelector returns the default selection strategy.
func NewUniformRandomSelector() Selector {
	return &uniformRandomSelector{}
}

// Pick selects one candidate uniformly at random.
func (s *uniformRandomSelector) Pick(candidates []models.Professional) (*models.Professional, error) {
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoProfessionalsAvailable
	}
	chosen := candidates[rand.Intn(len(candidates))]
	return &chosen, nil
}

// Ensure uniformRandomSelector implements Selector at compile time.
var _ Selector = (*uniformRandomSelector)(nil)
