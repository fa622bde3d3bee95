package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

// HotelRepository handles database operations for the hotels table
type HotelRepository struct {
	db DB
}

// NewHotelRepository creates a new HotelRepository
func NewHotelRepository(db DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// List retrieves all hotels
func (r *HotelRepository) List() ([]models.Hotel, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM hotels
		ORDER BY name
	`

	hotels := []models.Hotel{}
	if err := r.db.Select(&hotels, query); err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

// GetByID retrieves a hotel by id
func (r *HotelRepository) GetByID(hotelID uuid.UUID) (*models.Hotel, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM hotels
		WHERE id = $1
	`

	var hotel models.Hotel
	if err := r.db.Get(&hotel, query, hotelID); err != nil {
		return nil, err
	}
	return &hotel, nil
}

// Stats returns the task and staffing rollup for a hotel
func (r *HotelRepository) Stats(hotelID uuid.UUID) (*models.HotelStats, error) {
	query := `
		SELECT
			$1::uuid AS hotel_id,
			(SELECT COUNT(*) FROM tasks WHERE hotel_id = $1) AS total_tasks,
			(SELECT COUNT(*) FROM tasks WHERE hotel_id = $1 AND status = 'pending') AS pending_tasks,
			(SELECT COUNT(*) FROM tasks WHERE hotel_id = $1 AND status = 'in_progress') AS active_tasks,
			(SELECT COUNT(*) FROM tasks WHERE hotel_id = $1 AND status = 'completed') AS completed_tasks,
			(SELECT COUNT(*) FROM users WHERE hotel_id = $1
			   AND role IN ('bellman', 'bell_captain')
			   AND bellman_status != 'off_duty') AS active_bellmen
	`

	var stats models.HotelStats
	if err := r.db.Get(&stats, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to load hotel stats: %w", err)
	}
	return &stats, nil
}
