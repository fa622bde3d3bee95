package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

const bellmanColumns = `id, hotel_id, full_name, bellman_status, line_position, updated_at`

// BellmanRepository handles queue state on bell-staff user rows
type BellmanRepository struct {
	db DB
}

// NewBellmanRepository creates a new BellmanRepository
func NewBellmanRepository(db DB) *BellmanRepository {
	return &BellmanRepository{db: db}
}

// ListByHotel retrieves active bell staff ordered by line position
func (r *BellmanRepository) ListByHotel(hotelID uuid.UUID) ([]models.Bellman, error) {
	query := `
		SELECT ` + bellmanColumns + `
		FROM users
		WHERE hotel_id = $1
		  AND role IN ('bellman', 'bell_captain')
		  AND is_active = TRUE
		ORDER BY line_position, updated_at
	`

	bellmen := []models.Bellman{}
	if err := r.db.Select(&bellmen, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to list bellmen: %w", err)
	}
	return bellmen, nil
}

// GetByID retrieves one bellman scoped to a hotel
func (r *BellmanRepository) GetByID(hotelID, userID uuid.UUID) (*models.Bellman, error) {
	query := `
		SELECT ` + bellmanColumns + `
		FROM users
		WHERE id = $1 AND hotel_id = $2
		  AND role IN ('bellman', 'bell_captain')
	`

	var bellman models.Bellman
	if err := r.db.Get(&bellman, query, userID, hotelID); err != nil {
		return nil, err
	}
	return &bellman, nil
}

// SetStatus updates a bellman's queue status
func (r *BellmanRepository) SetStatus(hotelID, userID uuid.UUID, status models.BellmanStatus) error {
	query := `
		UPDATE users
		SET bellman_status = $3, updated_at = now()
		WHERE id = $1 AND hotel_id = $2
		  AND role IN ('bellman', 'bell_captain')
	`

	result, err := r.db.Exec(query, userID, hotelID, status)
	if err != nil {
		return fmt.Errorf("failed to update bellman status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check bellman status update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bellman %s not found in hotel %s", userID, hotelID)
	}

	return nil
}

// ReturnToLine puts a bellman back in line at the top or bottom of the
// rotation. Top means next up (lowest position), bottom means last.
func (r *BellmanRepository) ReturnToLine(hotelID, userID uuid.UUID, placement models.LinePlacement) error {
	position := `
		( SELECT COALESCE(MAX(line_position), 0) + 1 FROM users
		 WHERE hotel_id = $2 AND bellman_status = 'in_line')
	`
	if placement == models.PlacementTop {
		position = `
		( SELECT COALESCE(MIN(line_position), 0) - 1 FROM users
		 WHERE hotel_id = $2 AND bellman_status = 'in_line')
	`
	}

	query := `
		UPDATE users
		SET bellman_status = 'in_line',
		    line_position = ` + position + `,
		    updated_at = now()
		WHERE id = $1 AND hotel_id = $2
		  AND role IN ('bellman', 'bell_captain')
	`

	result, err := r.db.Exec(query, userID, hotelID)
	if err != nil {
		return fmt.Errorf("failed to return bellman to line: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check line placement update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bellman %s not found in hotel %s", userID, hotelID)
	}

	return nil
}
