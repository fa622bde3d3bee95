package models

import (
	"time"

	"github.com/google/uuid"
)

// BellmanStatus represents where a bellman is in the line rotation
type BellmanStatus string

const (
	BellmanStatusOffDuty   BellmanStatus = "off_duty"
	BellmanStatusInLine    BellmanStatus = "in_line"
	BellmanStatusInProcess BellmanStatus = "in_process"
)

// IsValid reports whether the status is a known value
func (s BellmanStatus) IsValid() bool {
	switch s {
	case BellmanStatusOffDuty, BellmanStatusInLine, BellmanStatusInProcess:
		return true
	}
	return false
}

// Bellman is the queue view of a user with the bellman role
type Bellman struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	HotelID      uuid.UUID     `json:"hotel_id" db:"hotel_id"`
	FullName     string        `json:"full_name" db:"full_name"`
	Status       BellmanStatus `json:"status" db:"bellman_status"`
	LinePosition int           `json:"line_position" db:"line_position"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// LinePlacement controls where a bellman re-enters the line
type LinePlacement string

const (
	PlacementTop    LinePlacement = "top"
	PlacementBottom LinePlacement = "bottom"
)

// IsValid reports whether the placement is a known value
func (p LinePlacement) IsValid() bool {
	return p == PlacementTop || p == PlacementBottom
}

// AssigneeKind distinguishes persisted users from session-local roster entries
type AssigneeKind string

const (
	AssigneeUser      AssigneeKind = "user"
	AssigneeTemporary AssigneeKind = "temporary"
)

// Assignee identifies who a task is handed to. Exactly one of UserID or
// LocalID is meaningful, selected by Kind.
type Assignee struct {
	Kind    AssigneeKind `json:"kind"`
	UserID  uuid.UUID    `json:"user_id,omitempty"`
	LocalID string       `json:"local_id,omitempty"`
}

// IsValid reports whether the assignee names exactly one target
func (a Assignee) IsValid() bool {
	switch a.Kind {
	case AssigneeUser:
		return a.UserID != uuid.Nil
	case AssigneeTemporary:
		return a.LocalID != ""
	}
	return false
}

// TemporaryBellman is a session-local roster entry. It exists only in
// memory for the lifetime of a queue session and is never persisted.
type TemporaryBellman struct {
	LocalID   string        `json:"local_id"`
	Name      string        `json:"name"`
	Status    BellmanStatus `json:"status"`
	TaskID    NullUUID      `json:"task_id"`
	TaskTitle NullString    `json:"task_title"`
	AddedAt   time.Time     `json:"added_at"`
}
