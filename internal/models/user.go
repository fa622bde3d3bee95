package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's function within a hotel
type Role string

const (
	RoleBellman       Role = "bellman"
	RoleBellCaptain   Role = "bell_captain"
	RolePhoneOperator Role = "phone_operator"
	RoleFrontDesk     Role = "front_desk"
	RoleManager       Role = "manager"
	RoleAdmin         Role = "admin"
)

// IsValid reports whether the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleBellman, RoleBellCaptain, RolePhoneOperator, RoleFrontDesk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsBellStaff reports whether the role works the bellman line
func (r Role) IsBellStaff() bool {
	return r == RoleBellman || r == RoleBellCaptain
}

// CanCreateTasks reports whether the role may file new tasks
func (r Role) CanCreateTasks() bool {
	switch r {
	case RolePhoneOperator, RoleFrontDesk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanManageQueue reports whether the role may assign tasks and manage the line
func (r Role) CanManageQueue() bool {
	switch r {
	case RoleBellCaptain, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// TaskAction is something a user may do to a task
type TaskAction string

const (
	ActionTake     TaskAction = "take"
	ActionComplete TaskAction = "complete"
	ActionCancel   TaskAction = "cancel"
	ActionReassign TaskAction = "reassign"
)

// AllowedTaskActions returns the actions a user may perform on a task,
// given their role, whether the task is assigned to them, and the task
// status. Terminal tasks allow nothing.
func AllowedTaskActions(role Role, isAssignee bool, status TaskStatus) []TaskAction {
	if status.IsTerminal() {
		return nil
	}
	var actions []TaskAction
	if status == TaskStatusPending && role.IsBellStaff() {
		actions = append(actions, ActionTake)
	}
	if status == TaskStatusInProgress && (isAssignee || role.CanManageQueue()) {
		actions = append(actions, ActionComplete, ActionCancel)
	}
	if role.CanManageQueue() {
		actions = append(actions, ActionReassign)
	}
	return actions
}

// User represents a hotel staff account
type User struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	HotelID       NullUUID      `json:"hotel_id" db:"hotel_id"`
	Email         string        `json:"email" db:"email"`
	PasswordHash  string        `json:"-" db:"password_hash"`
	FullName      string        `json:"full_name" db:"full_name"`
	Role          Role          `json:"role" db:"role"`
	BellmanStatus BellmanStatus `json:"bellman_status" db:"bellman_status"`
	LinePosition  int           `json:"line_position" db:"line_position"`
	IsActive      bool          `json:"is_active" db:"is_active"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsSuperAdmin reports whether the user administers all hotels
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleAdmin && !u.HotelID.Valid
}
