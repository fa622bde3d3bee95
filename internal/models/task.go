package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusEmptyRoom  TaskStatus = "empty_room"
)

// TerminalStatuses are absorbing: once reached, no further transition applies
var TerminalStatuses = map[TaskStatus]bool{
	TaskStatusCompleted: true,
	TaskStatusCancelled: true,
	TaskStatusEmptyRoom: true,
}

// IsTerminal reports whether the status is absorbing
func (s TaskStatus) IsTerminal() bool {
	return TerminalStatuses[s]
}

// IsValid reports whether the status is a known value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusEmptyRoom:
		return true
	}
	return false
}

// CanTransition reports whether a task may move from s to target.
// Terminal states absorb every attempt; identical states are a no-op.
func (s TaskStatus) CanTransition(target TaskStatus) bool {
	if s.IsTerminal() || s == target {
		return false
	}
	switch s {
	case TaskStatusPending:
		return target == TaskStatusInProgress || target.IsTerminal()
	case TaskStatusInProgress:
		return target.IsTerminal()
	}
	return false
}

// TaskPriority represents the urgency tier of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority is a known value
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// TaskCategory groups tasks for filtering and stats
type TaskCategory string

const (
	TaskCategoryCheckIn  TaskCategory = "check_in"
	TaskCategoryCheckOut TaskCategory = "check_out"
	TaskCategoryRoomMove TaskCategory = "room_move"
	TaskCategoryOther    TaskCategory = "other"
)

// Task represents a bell-staff work item
type Task struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	HotelID      uuid.UUID    `json:"hotel_id" db:"hotel_id"`
	Title        string       `json:"title" db:"title"`
	Description  NullString   `json:"description" db:"description"`
	RoomNumber   string       `json:"room_number" db:"room_number"`
	GuestName    NullString   `json:"guest_name" db:"guest_name"`
	TicketNumber NullString   `json:"ticket_number" db:"ticket_number"`
	Priority     TaskPriority `json:"priority" db:"priority"`
	Status       TaskStatus   `json:"status" db:"status"`
	CreatedBy    NullUUID     `json:"created_by" db:"created_by"`
	AssignedTo   NullUUID     `json:"assigned_to" db:"assigned_to"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	CompletedAt  NullTime     `json:"completed_at" db:"completed_at"`
}

// Category derives the filter category from the task title.
// Matching is on title substring so free-form titles like
// "VIP Check In - Suite 1201" still bucket correctly.
func (t *Task) Category() TaskCategory {
	return CategoryForTitle(t.Title)
}

// CategoryForTitle buckets a task title into a category by substring match
func CategoryForTitle(title string) TaskCategory {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "check in") || strings.Contains(lower, "check-in"):
		return TaskCategoryCheckIn
	case strings.Contains(lower, "check out") || strings.Contains(lower, "check-out"):
		return TaskCategoryCheckOut
	case strings.Contains(lower, "room move"):
		return TaskCategoryRoomMove
	}
	return TaskCategoryOther
}

// StatusColor maps a task status to its presentation color token
func StatusColor(s TaskStatus) string {
	switch s {
	case TaskStatusPending:
		return "yellow"
	case TaskStatusInProgress:
		return "blue"
	case TaskStatusCompleted:
		return "green"
	case TaskStatusCancelled:
		return "red"
	case TaskStatusEmptyRoom:
		return "gray"
	}
	return "gray"
}

// StatusLabel maps a task status to its display label
func StatusLabel(s TaskStatus) string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	case TaskStatusEmptyRoom:
		return "Empty Room"
	}
	return string(s)
}

// PriorityColor maps a task priority to its presentation color token
func PriorityColor(p TaskPriority) string {
	switch p {
	case TaskPriorityUrgent:
		return "red"
	case TaskPriorityHigh:
		return "orange"
	case TaskPriorityMedium:
		return "yellow"
	case TaskPriorityLow:
		return "green"
	}
	return "gray"
}
