package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

const activityLogColumns = `id, hotel_id, bellman_name, task_type, room_number, status,
	   guest_name, ticket_number, recorded_at`

// ActivityLogListParams narrows activity log queries
type ActivityLogListParams struct {
	Search       string
	Status       models.ActivityStatus
	BellmanName  string
	RecordedFrom time.Time
	RecordedTo   time.Time
	Limit        uint64
}

// ActivityLogRepository handles database operations for activity logs
type ActivityLogRepository struct {
	db DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// AppendOrUpdate records an action with the collapse rule: an "assigned"
// action always inserts a fresh row; any later action updates the latest
// row for the same (bellman, task type, room, guest) tuple in place. The
// log then reads as one line per unit of work.
func (r *ActivityLogRepository) AppendOrUpdate(entry *models.ActivityLog) error {
	findQuery := `
		SELECT id, status
		FROM activity_logs
		WHERE hotel_id = $1
		  AND bellman_name = $2
		  AND task_type = $3
		  AND room_number = $4
		  AND guest_name IS NOT DISTINCT FROM $5
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var existing struct {
		ID     int64                 `db:"id"`
		Status models.ActivityStatus `db:"status"`
	}
	err := r.db.Get(&existing, findQuery,
		entry.HotelID, entry.BellmanName, entry.TaskType, entry.RoomNumber, entry.GuestName)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up activity log entry: %w", err)
	}

	if err == nil && entry.Status != models.ActivityAssigned {
		updateQuery := `
			UPDATE activity_logs
			SET status = $2, ticket_number = $3, recorded_at = now()
			WHERE id = $1
			RETURNING id, recorded_at
		`
		if scanErr := r.db.QueryRow(updateQuery, existing.ID, entry.Status, entry.TicketNumber).
			Scan(&entry.ID, &entry.RecordedAt); scanErr != nil {
			return fmt.Errorf("failed to update activity log entry: %w", scanErr)
		}
		return nil
	}

	return r.Append(entry)
}

// Append inserts an entry unconditionally, bypassing the collapse rule.
// Used for events without an "assigned" anchor, like duty toggles, where
// every occurrence is its own history line.
func (r *ActivityLogRepository) Append(entry *models.ActivityLog) error {
	insertQuery := `
		INSERT INTO activity_logs (
			hotel_id, bellman_name, task_type, room_number, status,
			guest_name, ticket_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recorded_at
	`
	if scanErr := r.db.QueryRow(insertQuery,
		entry.HotelID, entry.BellmanName, entry.TaskType, entry.RoomNumber,
		entry.Status, entry.GuestName, entry.TicketNumber,
	).Scan(&entry.ID, &entry.RecordedAt); scanErr != nil {
		return fmt.Errorf("failed to insert activity log entry: %w", scanErr)
	}
	return nil
}

// List retrieves activity log entries for a hotel, newest first
func (r *ActivityLogRepository) List(hotelID uuid.UUID, params ActivityLogListParams) ([]models.ActivityLog, error) {
	builder := psql.
		Select(activityLogColumns).
		From("activity_logs").
		Where(sq.Eq{"hotel_id": hotelID}).
		OrderBy("recorded_at DESC")

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"bellman_name": pattern},
			sq.ILike{"task_type": pattern},
			sq.ILike{"room_number": pattern},
			sq.ILike{"guest_name": pattern},
		})
	}
	if params.Status != "" {
		builder = builder.Where(sq.Eq{"status": params.Status})
	}
	if params.BellmanName != "" {
		builder = builder.Where(sq.Eq{"bellman_name": params.BellmanName})
	}
	if !params.RecordedFrom.IsZero() {
		builder = builder.Where(sq.GtOrEq{"recorded_at": params.RecordedFrom})
	}
	if !params.RecordedTo.IsZero() {
		builder = builder.Where(sq.Lt{"recorded_at": params.RecordedTo})
	}
	if params.Limit > 0 {
		builder = builder.Limit(params.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build activity log query: %w", err)
	}

	logs := []models.ActivityLog{}
	if err := r.db.Select(&logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, nil
}

// DeleteOlderThan removes entries past the retention window
func (r *ActivityLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM activity_logs WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity logs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned activity logs: %w", err)
	}
	return rows, nil
}
