package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/havenlink/haven-engine/pkg/database"
	"github.com/havenlink/haven-engine/pkg/models"
)

// TransferEventRepository is the append-only transfer log. Events are
// never updated or deleted; the assignment row is the current-state
// projection over this log.
type TransferEventRepository interface {
	// Append records one transfer. The event id is assigned here (ULID).
	Append(ctx context.Context, event *models.TransferEvent) error

	// ListByVictim returns a victim's transfer history, oldest first.
	ListByVictim(ctx context.Context, victimID uuid.UUID) ([]*models.TransferEvent, error)
}

// transferEventRepository implements TransferEventRepository using PostgreSQL.
type transferEventRepository struct {
	db *database.DB
}

// NewTransferEventRepository creates a new transfer event repository.
func NewTransferEventRepository(db *database.DB) TransferEventRepository {
	return &transferEventRepository{db: db}
}

// Append records one transfer.
func (r *transferEventRepository) Append(ctx context.Context, event *models.TransferEvent) error {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	query := `
		INSERT INTO transfer_events (id, victim_id, category, from_professional_id, to_professional_id, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.VictimID,
		event.Category,
		event.FromProfessionalID,
		event.ToProfessionalID,
		event.Reason,
		event.OccurredAt,
	)
	if err != nil {
		return storeError("append transfer event", err)
	}

	return nil
}

// ListByVictim returns a victim's transfer history, oldest first.
// ULIDs order lexicographically by creation time, so ordering by id is
// ordering by time.
func (r *transferEventRepository) ListByVictim(ctx context.Context, victimID uuid.UUID) ([]*models.TransferEvent, error) {
	query := `
		SELECT id, victim_id, category, from_professional_id, to_professional_id, reason, occurred_at
		FROM transfer_events
		WHERE victim_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, victimID)
	if err != nil {
		return nil, storeError("list transfer events", err)
	}
	defer rows.Close()

	var events []*models.TransferEvent
	for rows.Next() {
		var e models.TransferEvent
		if err := rows.Scan(&e.ID, &e.VictimID, &e.Category, &e.FromProfessionalID, &e.ToProfessionalID, &e.Reason, &e.OccurredAt); err != nil {
			return nil, storeError("scan transfer event", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate transfer events", err)
	}

	return events, nil
}

// Ensure transferEventRepository implements TransferEventRepository at compile time.
var _ TransferEventRepository = (*transferEventRepository)(nil)
