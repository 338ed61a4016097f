package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/directory"
	"github.com/havenlink/haven-engine/pkg/models"
	"github.com/havenlink/haven-engine/pkg/repositories"
)

// VictimAssignment is one of a victim's pairings with the professional
// resolved, for the "who am I talking to" view.
type VictimAssignment struct {
	Professional   models.Professional `json:"professional"`
	Category       models.Category     `json:"category"`
	AssignedAt     time.Time           `json:"assignedAt"`
	IsFirstContact bool                `json:"isFirstContact"`
}

// CaseloadEntry is one victim on a professional's caseload.
type CaseloadEntry struct {
	Victim        models.User     `json:"victim"`
	Category      models.Category `json:"category"`
	AssignedAt    time.Time       `json:"assignedAt"`
	IntakeSummary string          `json:"intakeSummary"`
}

// AssignmentService owns allocation, transfer and the assignment views.
// Allocation is a stable decision: once a professional has been assigned
// for a (victim, category) pair, every later request returns the same
// professional.
type AssignmentService interface {
	// Allocate returns the victim's professional for the category,
	// assigning one if none exists. isExisting reports whether the
	// pairing predates this call.
	Allocate(ctx context.Context, victimID uuid.UUID, category models.Category, intakeSummary string) (professional *models.Professional, isExisting bool, err error)

	// ListForVictim returns all of the victim's assignments with
	// professionals resolved.
	ListForVictim(ctx context.Context, victimID uuid.UUID) ([]*VictimAssignment, error)

	// ListForProfessional returns the professional's caseload with
	// victims resolved.
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*CaseloadEntry, error)

	// MarkContacted clears the first-contact flag on all of the victim's
	// assignments. Idempotent.
	MarkContacted(ctx context.Context, victimID uuid.UUID) error

	// Transfer hands the victim off to a professional in newCategory.
	// The requester must currently hold an assignment for the victim.
	Transfer(ctx context.Context, victimID, requestingProfessionalID uuid.UUID, newCategory models.Category, reason string) (*models.Professional, error)

	// TransferHistory returns the victim's transfer log, oldest first.
	// Gated by the same ownership rule as Transfer.
	TransferHistory(ctx context.Context, victimID, requestingProfessionalID uuid.UUID) ([]*models.TransferEvent, error)
}

type assignmentService struct {
	assignments repositories.AssignmentRepository
	transfers   repositories.TransferEventRepository
	dir         directory.Directory
	selector    Selector
	logger      *zap.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignments repositories.AssignmentRepository,
	transfers repositories.TransferEventRepository,
	dir directory.Directory,
	selector Selector,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		transfers:   transfers,
		dir:         dir,
		selector:    selector,
		logger:      logger.Named("assignment-service"),
	}
}

var _ AssignmentService = (*assignmentService)(nil)

// Allocate returns the victim's professional for the category, assigning
// one if none exists.
func (s *assignmentService) Allocate(ctx context.Context, victimID uuid.UUID, category models.Category, intakeSummary string) (*models.Professional, bool, error) {
	if !models.IsValidCategory(category) {
		return nil, false, fmt.Errorf("category %q: %w", category, apperrors.ErrInvalidCategory)
	}

	existing, err := s.assignments.Find(ctx, victimID, category)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil {
		professional, err := s.dir.Get(ctx, existing.AssignedProfessionalID)
		if err != nil {
			return nil, false, fmt.Errorf("resolve assigned professional: %w", err)
		}
		return professional, true, nil
	}

	candidates, err := s.dir.ListByCategory(ctx, category)
	if err != nil {
		return nil, false, fmt.Errorf("list %s candidates: %w", category, err)
	}
	if len(candidates) == 0 {
		return nil, false, fmt.Errorf("no %s available: %w", category, apperrors.ErrNoProfessionalsAvailable)
	}

	chosen, err := s.selector.Pick(candidates)
	if err != nil {
		return nil, false, err
	}

	assignment := &models.Assignment{
		VictimID:               victimID,
		AssignedProfessionalID: chosen.ID,
		Category:               category,
		IntakeSummary:          intakeSummary,
		IsFirstContact:         true,
	}

	err = s.assignments.Create(ctx, assignment)
	if errors.Is(err, apperrors.ErrConflict) {
		// A concurrent request won the race. The winner's assignment is
		// the stable pairing; return it instead of erroring so both
		// callers observe the same professional.
		winner, findErr := s.assignments.Find(ctx, victimID, category)
		if findErr != nil {
			return nil, false, fmt.Errorf("resolve allocation race: %w", findErr)
		}
		professional, dirErr := s.dir.Get(ctx, winner.AssignedProfessionalID)
		if dirErr != nil {
			return nil, false, fmt.Errorf("resolve assigned professional: %w", dirErr)
		}
		return professional, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("Allocated professional",
		zap.String("victim_id", victimID.String()),
		zap.String("professional_id", chosen.ID.String()),
		zap.String("category", string(category)))

	return chosen, false, nil
}

// ListForVictim returns all of the victim's assignments with
// professionals resolved.
func (s *assignmentService) ListForVictim(ctx context.Context, victimID uuid.UUID) ([]*VictimAssignment, error) {
	assignments, err := s.assignments.ListByVictim(ctx, victimID)
	if err != nil {
		return nil, err
	}

	views := make([]*VictimAssignment, 0, len(assignments))
	for _, a := range assignments {
		professional, err := s.dir.Get(ctx, a.AssignedProfessionalID)
		if err != nil {
			return nil, fmt.Errorf("resolve professional %s: %w", a.AssignedProfessionalID, err)
		}
		views = append(views, &VictimAssignment{
			Professional:   *professional,
			Category:       a.Category,
			AssignedAt:     a.AssignedAt,
			IsFirstContact: a.IsFirstContact,
		})
	}

	return views, nil
}

// ListForProfessional returns the professional's caseload with victims
// resolved.
func (s *assignmentService) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*CaseloadEntry, error) {
	assignments, err := s.assignments.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	entries := make([]*CaseloadEntry, 0, len(assignments))
	for _, a := range assignments {
		victim, err := s.dir.GetUser(ctx, a.VictimID)
		if err != nil {
			return nil, fmt.Errorf("resolve victim %s: %w", a.VictimID, err)
		}
		entries = append(entries, &CaseloadEntry{
			Victim:        *victim,
			Category:      a.Category,
			AssignedAt:    a.AssignedAt,
			IntakeSummary: a.IntakeSummary,
		})
	}

	return entries, nil
}

// MarkContacted clears the first-contact flag on all of the victim's
// assignments.
func (s *assignmentService) MarkContacted(ctx context.Context, victimID uuid.UUID) error {
	return s.assignments.MarkContacted(ctx, victimID)
}

// Transfer hands the victim off to a professional in newCategory.
func (s *assignmentService) Transfer(ctx context.Context, victimID, requestingProfessionalID uuid.UUID, newCategory models.Category, reason string) (*models.Professional, error) {
	if !models.IsValidCategory(newCategory) {
		return nil, fmt.Errorf("category %q: %w", newCategory, apperrors.ErrInvalidCategory)
	}

	if err := s.requireOwnership(ctx, victimID, requestingProfessionalID); err != nil {
		return nil, err
	}

	candidates, err := s.dir.ListByCategory(ctx, newCategory)
	if err != nil {
		return nil, fmt.Errorf("list %s candidates: %w", newCategory, err)
	}
	// The requester can never receive their own transfer; without this a
	// same-category reassignment could select the requester and set
	// transfer_origin equal to the assigned professional.
	eligible := candidates[:0]
	for _, c := range candidates {
		if c.ID != requestingProfessionalID {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no %s available for transfer: %w", newCategory, apperrors.ErrNoProfessionalsAvailable)
	}

	chosen, err := s.selector.Pick(eligible)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.ApplyTransfer(ctx, victimID, newCategory, chosen.ID, requestingProfessionalID, reason)
	if err != nil {
		return nil, err
	}

	// Best-effort audit append: the transfer has already taken effect and
	// must not be rolled back because the log write failed.
	event := &models.TransferEvent{
		VictimID:           victimID,
		Category:           newCategory,
		FromProfessionalID: requestingProfessionalID,
		ToProfessionalID:   chosen.ID,
		Reason:             reason,
	}
	if err := s.transfers.Append(ctx, event); err != nil {
		s.logger.Error("Failed to append transfer event",
			zap.String("victim_id", victimID.String()),
			zap.String("assignment_id", assignment.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Transferred victim",
		zap.String("victim_id", victimID.String()),
		zap.String("from_professional_id", requestingProfessionalID.String()),
		zap.String("to_professional_id", chosen.ID.String()),
		zap.String("category", string(newCategory)))

	return chosen, nil
}

// TransferHistory returns the victim's transfer log, oldest first.
func (s *assignmentService) TransferHistory(ctx context.Context, victimID, requestingProfessionalID uuid.UUID) ([]*models.TransferEvent, error) {
	if err := s.requireOwnership(ctx, victimID, requestingProfessionalID); err != nil {
		return nil, err
	}
	return s.transfers.ListByVictim(ctx, victimID)
}

// requireOwnership checks that the professional currently holds an
// assignment for the victim in some category. Only a professional
// actively handling a case may transfer it or read its history.
func (s *assignmentService) requireOwnership(ctx context.Context, victimID, professionalID uuid.UUID) error {
	assignments, err := s.assignments.ListByVictim(ctx, victimID)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if a.AssignedProfessionalID == professionalID {
			return nil
		}
	}
	return fmt.Errorf("professional %s holds no assignment for victim %s: %w",
		professionalID, victimID, apperrors.ErrForbidden)
}
