package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/models"
)

func TestUniformRandomSelector_Empty(t *testing.T) {
	selector := NewUniformRandomSelector()

	_, err := selector.Pick(nil)
	assert.ErrorIs(t, err, apperrors.ErrNoProfessionalsAvailable)

	_, err = selector.Pick([]models.Professional{})
	assert.ErrorIs(t, err, apperrors.ErrNoProfessionalsAvailable)
}

func TestUniformRandomSelector_Single(t *testing.T) {
	selector := NewUniformRandomSelector()
	only := models.Professional{ID: uuid.New(), DisplayName: "Asha", Category: models.CategoryCounsellor}

	chosen, err := selector.Pick([]models.Professional{only})
	require.NoError(t, err)
	assert.Equal(t, only.ID, chosen.ID)
}

func TestUniformRandomSelector_AlwaysFromCandidates(t *testing.T) {
	selector := NewUniformRandomSelector()
	candidates := []models.Professional{
		{ID: uuid.New(), Category: models.CategoryLegal},
		{ID: uuid.New(), Category: models.CategoryLegal},
		{ID: uuid.New(), Category: models.CategoryLegal},
	}
	valid := map[uuid.UUID]bool{}
	for _, c := range candidates {
		valid[c.ID] = true
	}

	for i := 0; i < 100; i++ {
		chosen, err := selector.Pick(candidates)
		require.NoError(t, err)
		assert.True(t, valid[chosen.ID], "selector returned a professional outside the candidate list")
	}
}
