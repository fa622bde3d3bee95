package services

import "errors"

// Domain errors surfaced to handlers for HTTP mapping
var (
	// ErrTaskConflict means another actor took or resolved the task first
	ErrTaskConflict = errors.New("task is no longer available")

	// ErrTaskNotFound means the task does not exist in this hotel
	ErrTaskNotFound = errors.New("task not found")

	// ErrBellmanNotFound means the roster or registry has no such bellman
	ErrBellmanNotFound = errors.New("bellman not found")

	// ErrEmptyBellmanName rejects blank temporary bellman names
	ErrEmptyBellmanName = errors.New("bellman name must not be empty")

	// ErrBellmanNotInLine means a pickup was attempted while not in line
	ErrBellmanNotInLine = errors.New("bellman is not in line")

	// ErrManualInProcess rejects setting in_process by hand; only an
	// assignment moves a bellman there
	ErrManualInProcess = errors.New("in_process cannot be set manually")

	// ErrBellmanBusy means the bellman already holds an active task
	ErrBellmanBusy = errors.New("bellman already has a task in progress")

	// ErrValidation covers malformed task input
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials covers failed logins
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden means the caller's role does not permit the action
	ErrForbidden = errors.New("action not permitted for role")
)
