package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is a tenant. Every task, bellman and log row is scoped to one.
type Hotel struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HotelStats is the per-tenant rollup shown on the admin dashboard
type HotelStats struct {
	HotelID        uuid.UUID `json:"hotel_id" db:"hotel_id"`
	TotalTasks     int       `json:"total_tasks" db:"total_tasks"`
	PendingTasks   int       `json:"pending_tasks" db:"pending_tasks"`
	ActiveTasks    int       `json:"active_tasks" db:"active_tasks"`
	CompletedTasks int       `json:"completed_tasks" db:"completed_tasks"`
	ActiveBellmen  int       `json:"active_bellmen" db:"active_bellmen"`
}
