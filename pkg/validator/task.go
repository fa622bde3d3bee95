// Package validator sanitizes and validates task input before it reaches
// the queue engine. All input is treated as untrusted free text.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxRoomNumberLength  = 20
	maxTextLength        = 200
	maxDescriptionLength = 1000
)

var roomNumberPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// SanitizeRoomNumber normalizes a room number: trimmed, uppercased,
// alphanumerics and dashes only, at most 20 characters.
func SanitizeRoomNumber(room string) (string, error) {
	room = strings.ToUpper(strings.TrimSpace(room))
	if room == "" {
		return "", fmt.Errorf("room number is required")
	}
	if len(room) > maxRoomNumberLength {
		return "", fmt.Errorf("room number exceeds %d characters", maxRoomNumberLength)
	}
	if !roomNumberPattern.MatchString(room) {
		return "", fmt.Errorf("room number may only contain letters, digits and dashes")
	}
	return room, nil
}

// SanitizeText trims free text, strips control characters and enforces a
// length cap. Empty results are allowed; callers decide if required.
func SanitizeText(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = maxTextLength
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsControl(r) && r != '\n' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

// TaskInput is the raw create-task payload before sanitization
type TaskInput struct {
	TaskType     string `json:"task_type"`
	RoomNumber   string `json:"room_number"`
	FromRoom     string `json:"from_room"`
	ToRoom       string `json:"to_room"`
	GuestName    string `json:"guest_name"`
	TicketNumber string `json:"ticket_number"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
}

// ValidatedTask is the sanitized result ready for the engine
type ValidatedTask struct {
	Title        string
	RoomNumber   string
	GuestName    string
	TicketNumber string
	Description  string
	Priority     string
}

// ValidateTask sanitizes a task payload. Room moves take from and to
// rooms; the stored room becomes "<from> → <to>" and a default
// description is composed when none is given. Other task types take a
// single room number.
func ValidateTask(in TaskInput) (*ValidatedTask, error) {
	taskType := SanitizeText(in.TaskType, maxTextLength)
	if taskType == "" {
		return nil, fmt.Errorf("task type is required")
	}

	out := &ValidatedTask{
		GuestName:    SanitizeText(in.GuestName, maxTextLength),
		TicketNumber: SanitizeText(in.TicketNumber, maxTextLength),
		Description:  SanitizeText(in.Description, maxDescriptionLength),
		Priority:     strings.ToLower(strings.TrimSpace(in.Priority)),
	}

	if isRoomMove(taskType) {
		from, err := SanitizeRoomNumber(in.FromRoom)
		if err != nil {
			return nil, fmt.Errorf("from room: %w", err)
		}
		to, err := SanitizeRoomNumber(in.ToRoom)
		if err != nil {
			return nil, fmt.Errorf("to room: %w", err)
		}
		out.RoomNumber = from + " → " + to
		out.Title = taskType + " - " + from + " → " + to
		if out.Description == "" {
			out.Description = fmt.Sprintf("Move from room %s to room %s", from, to)
		}
		return out, nil
	}

	room, err := SanitizeRoomNumber(in.RoomNumber)
	if err != nil {
		return nil, err
	}
	out.RoomNumber = room
	out.Title = taskType + " - Room " + room
	return out, nil
}

func isRoomMove(taskType string) bool {
	return strings.Contains(strings.ToLower(taskType), "room move")
}
