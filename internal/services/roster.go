package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

type rosterKey struct {
	hotelID uuid.UUID
	session string
}

// RosterStore holds temporary bellmen per queue session. Entries live in
// memory only: closing the session discards the roster, which is the
// contract for walk-in helpers who never get accounts. Slice order is
// line order.
type RosterStore struct {
	mu      sync.Mutex
	rosters map[rosterKey][]models.TemporaryBellman
}

// NewRosterStore creates an empty roster store
func NewRosterStore() *RosterStore {
	return &RosterStore{rosters: make(map[rosterKey][]models.TemporaryBellman)}
}

// Add appends a new temporary bellman to the session line
func (s *RosterStore) Add(hotelID uuid.UUID, session, name string) (*models.TemporaryBellman, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyBellmanName
	}

	entry := models.TemporaryBellman{
		LocalID: uuid.NewString(),
		Name:    name,
		Status:  models.BellmanStatusInLine,
		AddedAt: time.Now(),
	}

	key := rosterKey{hotelID: hotelID, session: session}
	s.mu.Lock()
	s.rosters[key] = append(s.rosters[key], entry)
	s.mu.Unlock()

	return &entry, nil
}

// Remove deletes a temporary bellman from the session roster. Removal is
// unconditional: an in-process entry disappears with its local state and
// any persisted task it held is recovered by the reconciliation path.
func (s *RosterStore) Remove(hotelID uuid.UUID, session, localID string) bool {
	key := rosterKey{hotelID: hotelID, session: session}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.rosters[key]
	for i, entry := range roster {
		if entry.LocalID == localID {
			s.rosters[key] = append(roster[:i], roster[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of one roster entry
func (s *RosterStore) Get(hotelID uuid.UUID, session, localID string) (*models.TemporaryBellman, bool) {
	key := rosterKey{hotelID: hotelID, session: session}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.rosters[key] {
		if entry.LocalID == localID {
			copied := entry
			return &copied, true
		}
	}
	return nil, false
}

// List returns a copy of the session roster in line order
func (s *RosterStore) List(hotelID uuid.UUID, session string) []models.TemporaryBellman {
	key := rosterKey{hotelID: hotelID, session: session}

	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.TemporaryBellman(nil), s.rosters[key]...)
}

// MarkInProcess moves a roster entry to in_process with its task snapshot
func (s *RosterStore) MarkInProcess(hotelID uuid.UUID, session, localID string, taskID uuid.UUID, taskTitle string) bool {
	key := rosterKey{hotelID: hotelID, session: session}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.rosters[key]
	for i := range roster {
		if roster[i].LocalID == localID {
			roster[i].Status = models.BellmanStatusInProcess
			roster[i].TaskID = models.NewNullUUID(taskID)
			roster[i].TaskTitle = models.NewNullString(taskTitle)
			return true
		}
	}
	return false
}

// ReturnToLine clears a roster entry's task and reorders the roster:
// in-line entries first with the returning bellman at the top or bottom
// of that group, in-process entries after them.
func (s *RosterStore) ReturnToLine(hotelID uuid.UUID, session, localID string, placement models.LinePlacement) bool {
	key := rosterKey{hotelID: hotelID, session: session}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.rosters[key]
	idx := -1
	for i := range roster {
		if roster[i].LocalID == localID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	returning := roster[idx]
	returning.Status = models.BellmanStatusInLine
	returning.TaskID = models.NullUUID{}
	returning.TaskTitle = models.NullString{}

	var inLine, inProcess []models.TemporaryBellman
	for i, entry := range roster {
		if i == idx {
			continue
		}
		if entry.Status == models.BellmanStatusInProcess {
			inProcess = append(inProcess, entry)
		} else {
			inLine = append(inLine, entry)
		}
	}

	reordered := make([]models.TemporaryBellman, 0, len(roster))
	if placement == models.PlacementTop {
		reordered = append(reordered, returning)
		reordered = append(reordered, inLine...)
	} else {
		reordered = append(reordered, inLine...)
		reordered = append(reordered, returning)
	}
	reordered = append(reordered, inProcess...)

	s.rosters[key] = reordered
	return true
}
