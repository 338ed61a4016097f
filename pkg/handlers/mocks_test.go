package handlers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/auth"
	"github.com/havenlink/haven-engine/pkg/models"
	"github.com/havenlink/haven-engine/pkg/services"
)

// testMiddleware builds an auth middleware that parses unsigned test
// tokens, matching the development-mode auth path.
func testMiddleware() *auth.Middleware {
	jwksClient, _ := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: false})
	authService := auth.NewAuthService(jwksClient, zap.NewNop())
	return auth.NewMiddleware(authService, zap.NewNop())
}

// mockClassifier returns a fixed result or error.
type mockClassifier struct {
	result *models.ClassificationResult
	err    error
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (*models.ClassificationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

var _ services.Classifier = (*mockClassifier)(nil)

// mockAssignmentService scripts service responses for handler tests.
type mockAssignmentService struct {
	professional *models.Professional
	isExisting   bool
	assignments  []*services.VictimAssignment
	caseload     []*services.CaseloadEntry
	history      []*models.TransferEvent
	err          error

	lastVictimID    uuid.UUID
	lastRequesterID uuid.UUID
	lastCategory    models.Category
	lastReason      string
}

func (m *mockAssignmentService) Allocate(_ context.Context, victimID uuid.UUID, category models.Category, _ string) (*models.Professional, bool, error) {
	m.lastVictimID = victimID
	m.lastCategory = category
	if m.err != nil {
		return nil, false, m.err
	}
	return m.professional, m.isExisting, nil
}

func (m *mockAssignmentService) ListForVictim(_ context.Context, victimID uuid.UUID) ([]*services.VictimAssignment, error) {
	m.lastVictimID = victimID
	if m.err != nil {
		return nil, m.err
	}
	return m.assignments, nil
}

func (m *mockAssignmentService) ListForProfessional(_ context.Context, professionalID uuid.UUID) ([]*services.CaseloadEntry, error) {
	m.lastRequesterID = professionalID
	if m.err != nil {
		return nil, m.err
	}
	return m.caseload, nil
}

func (m *mockAssignmentService) MarkContacted(_ context.Context, victimID uuid.UUID) error {
	m.lastVictimID = victimID
	return m.err
}

func (m *mockAssignmentService) Transfer(_ context.Context, victimID, requestingProfessionalID uuid.UUID, newCategory models.Category, reason string) (*models.Professional, error) {
	m.lastVictimID = victimID
	m.lastRequesterID = requestingProfessionalID
	m.lastCategory = newCategory
	m.lastReason = reason
	if m.err != nil {
		return nil, m.err
	}
	return m.professional, nil
}

func (m *mockAssignmentService) TransferHistory(_ context.Context, victimID, requestingProfessionalID uuid.UUID) ([]*models.TransferEvent, error) {
	m.lastVictimID = victimID
	m.lastRequesterID = requestingProfessionalID
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

var _ services.AssignmentService = (*mockAssignmentService)(nil)
