package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/database"
	"github.com/havenlink/haven-engine/pkg/models"
)

// AssignmentRepository defines the interface for assignment data access.
// At most one assignment exists per (victim, category); the database
// unique constraint is the source of truth for that invariant, not the
// callers.
type AssignmentRepository interface {
	// Find looks up the assignment by its natural key.
	// Returns apperrors.ErrNotFound when no row exists.
	Find(ctx context.Context, victimID uuid.UUID, category models.Category) (*models.Assignment, error)

	// Create inserts a new assignment. Returns apperrors.ErrConflict when
	// an assignment already exists for the (victim, category) pair,
	// including when a concurrent create won the race.
	Create(ctx context.Context, assignment *models.Assignment) error

	// ListByVictim returns all of one victim's assignments across categories.
	ListByVictim(ctx context.Context, victimID uuid.UUID) ([]*models.Assignment, error)

	// ListByProfessional returns all victims currently routed to one professional.
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*models.Assignment, error)

	// ApplyTransfer atomically re-points the (victim, category) slot to a
	// new professional, recording provenance. An existing row is
	// overwritten in place; a missing row is created with
	// is_first_contact = false (a transferred case is not a fresh intake).
	ApplyTransfer(ctx context.Context, victimID uuid.UUID, category models.Category, toProfessionalID, fromProfessionalID uuid.UUID, reason string) (*models.Assignment, error)

	// MarkContacted clears is_first_contact on all of the victim's
	// assignments. Idempotent.
	MarkContacted(ctx context.Context, victimID uuid.UUID) error
}

// assignmentRepository implements AssignmentRepository using PostgreSQL.
type assignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository over the given pool.
func NewAssignmentRepository(db *database.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, victim_id, assigned_professional_id, category, intake_summary,
	assigned_at, is_first_contact, transfer_origin, transfer_reason, transferred_at`

// Find looks up the assignment by its natural key.
func (r *assignmentRepository) Find(ctx context.Context, victimID uuid.UUID, category models.Category) (*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE victim_id = $1 AND category = $2`

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query, victimID, category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storeError("find assignment", err)
	}

	return assignment, nil
}

// Create inserts a new assignment.
func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}

	query := `
		INSERT INTO assignments (id, victim_id, assigned_professional_id, category, intake_summary,
			assigned_at, is_first_contact, transfer_origin, transfer_reason, transferred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		assignment.ID,
		assignment.VictimID,
		assignment.AssignedProfessionalID,
		assignment.Category,
		assignment.IntakeSummary,
		assignment.AssignedAt,
		assignment.IsFirstContact,
		assignment.TransferOrigin,
		assignment.TransferReason,
		assignment.TransferredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return storeError("create assignment", err)
	}

	return nil
}

// ListByVictim returns all of one victim's assignments across categories.
func (r *assignmentRepository) ListByVictim(ctx context.Context, victimID uuid.UUID) ([]*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE victim_id = $1
		ORDER BY assigned_at`

	rows, err := r.db.Query(ctx, query, victimID)
	if err != nil {
		return nil, storeError("list assignments by victim", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// ListByProfessional returns all victims currently routed to one professional.
func (r *assignmentRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE assigned_professional_id = $1
		ORDER BY assigned_at`

	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, storeError("list assignments by professional", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// ApplyTransfer atomically re-points the (victim, category) slot.
// A single upsert keeps the I1 invariant without application-level locking:
// the update path overwrites professional and provenance only, the insert
// path starts the slot with is_first_contact already cleared.
func (r *assignmentRepository) ApplyTransfer(ctx context.Context, victimID uuid.UUID, category models.Category, toProfessionalID, fromProfessionalID uuid.UUID, reason string) (*models.Assignment, error) {
	query := `
		INSERT INTO assignments (id, victim_id, assigned_professional_id, category, intake_summary,
			assigned_at, is_first_contact, transfer_origin, transfer_reason, transferred_at)
		VALUES ($1, $2, $3, $4, '', now(), FALSE, $5, $6, now())
		ON CONFLICT (victim_id, category) DO UPDATE
		SET assigned_professional_id = EXCLUDED.assigned_professional_id,
		    transfer_origin = EXCLUDED.transfer_origin,
		    transfer_reason = EXCLUDED.transfer_reason,
		    transferred_at = EXCLUDED.transferred_at
		RETURNING ` + assignmentColumns

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query,
		uuid.New(), victimID, toProfessionalID, category, fromProfessionalID, reason))
	if err != nil {
		return nil, storeError("apply transfer", err)
	}

	return assignment, nil
}

// MarkContacted clears is_first_contact on all of the victim's assignments.
func (r *assignmentRepository) MarkContacted(ctx context.Context, victimID uuid.UUID) error {
	query := `
		UPDATE assignments
		SET is_first_contact = FALSE
		WHERE victim_id = $1 AND is_first_contact`

	if _, err := r.db.Exec(ctx, query, victimID); err != nil {
		return storeError("mark contacted", err)
	}

	return nil
}

// scanAssignment scans one assignment row.
func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(
		&a.ID,
		&a.VictimID,
		&a.AssignedProfessionalID,
		&a.Category,
		&a.IntakeSummary,
		&a.AssignedAt,
		&a.IsFirstContact,
		&a.TransferOrigin,
		&a.TransferReason,
		&a.TransferredAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, storeError("scan assignment", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate assignments", err)
	}
	return assignments, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// (PostgreSQL error 23505), i.e. a lost create race on the natural key.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// storeError wraps repository failures. A PgError means the server
// answered (an application-level failure); anything else is a
// connection-level failure and maps to ErrStoreUnavailable so callers can
// surface it as a retryable transient condition.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStoreUnavailable, err)
}

// Ensure assignmentRepository implements AssignmentRepository at compile time.
var _ AssignmentRepository = (*assignmentRepository)(nil)
