package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus is the action recorded by an activity log entry
type ActivityStatus string

const (
	ActivityAssigned  ActivityStatus = "assigned"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
	ActivityEmptyRoom ActivityStatus = "empty_room"
	ActivityInLine    ActivityStatus = "in_line"
	ActivityOffDuty   ActivityStatus = "off_duty"
)

// ActivityLog records one bellman action. Repeated actions by the same
// bellman on the same task collapse into a single row that is updated in
// place, so the log reads as one line per unit of work.
type ActivityLog struct {
	ID           int64          `json:"id" db:"id"`
	HotelID      uuid.UUID      `json:"hotel_id" db:"hotel_id"`
	BellmanName  string         `json:"bellman_name" db:"bellman_name"`
	TaskType     string         `json:"task_type" db:"task_type"`
	RoomNumber   string         `json:"room_number" db:"room_number"`
	Status       ActivityStatus `json:"status" db:"status"`
	GuestName    NullString     `json:"guest_name" db:"guest_name"`
	TicketNumber NullString     `json:"ticket_number" db:"ticket_number"`
	RecordedAt   time.Time      `json:"recorded_at" db:"recorded_at"`
}

// ActivityColor maps an activity status to its presentation color token
func ActivityColor(s ActivityStatus) string {
	switch s {
	case ActivityAssigned:
		return "blue"
	case ActivityCompleted:
		return "green"
	case ActivityCancelled:
		return "red"
	case ActivityEmptyRoom:
		return "gray"
	case ActivityInLine:
		return "teal"
	case ActivityOffDuty:
		return "slate"
	}
	return "gray"
}

// ActivityIcon maps an activity status to its presentation icon token
func ActivityIcon(s ActivityStatus) string {
	switch s {
	case ActivityAssigned:
		return "user-check"
	case ActivityCompleted:
		return "check-circle"
	case ActivityCancelled:
		return "x-circle"
	case ActivityEmptyRoom:
		return "door-open"
	case ActivityInLine:
		return "log-in"
	case ActivityOffDuty:
		return "log-out"
	}
	return "circle"
}
