package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/models"
)

func TestRosterReturnToLineOrdering(t *testing.T) {
	store := NewRosterStore()
	hotelID := uuid.New()

	add := func(name string) *models.TemporaryBellman {
		entry, err := store.Add(hotelID, "s1", name)
		require.NoError(t, err)
		return entry
	}

	a := add("A")
	b := add("B")
	c := add("C")
	d := add("D")

	// D is out working; A resolves and returns
	store.MarkInProcess(hotelID, "s1", d.LocalID, uuid.New(), "Check In - Room 405")
	store.MarkInProcess(hotelID, "s1", a.LocalID, uuid.New(), "Check Out - Room 12")

	t.Run("top places returning bellman first among in-line", func(t *testing.T) {
		require.True(t, store.ReturnToLine(hotelID, "s1", a.LocalID, models.PlacementTop))

		roster := store.List(hotelID, "s1")
		require.Len(t, roster, 4)
		assert.Equal(t, a.LocalID, roster[0].LocalID)
		assert.Equal(t, b.LocalID, roster[1].LocalID)
		assert.Equal(t, c.LocalID, roster[2].LocalID)
		// In-process entries stay after the line
		assert.Equal(t, d.LocalID, roster[3].LocalID)
		assert.Equal(t, models.BellmanStatusInProcess, roster[3].Status)
	})

	t.Run("bottom places returning bellman last among in-line", func(t *testing.T) {
		store.MarkInProcess(hotelID, "s1", a.LocalID, uuid.New(), "Check In - Room 7")
		require.True(t, store.ReturnToLine(hotelID, "s1", a.LocalID, models.PlacementBottom))

		roster := store.List(hotelID, "s1")
		require.Len(t, roster, 4)
		assert.Equal(t, b.LocalID, roster[0].LocalID)
		assert.Equal(t, c.LocalID, roster[1].LocalID)
		assert.Equal(t, a.LocalID, roster[2].LocalID)
		assert.Equal(t, d.LocalID, roster[3].LocalID)
	})

	t.Run("returning clears the task snapshot", func(t *testing.T) {
		entry, ok := store.Get(hotelID, "s1", a.LocalID)
		require.True(t, ok)
		assert.Equal(t, models.BellmanStatusInLine, entry.Status)
		assert.False(t, entry.TaskID.Valid)
		assert.False(t, entry.TaskTitle.Valid)
	})

	t.Run("unknown entry returns false", func(t *testing.T) {
		assert.False(t, store.ReturnToLine(hotelID, "s1", "missing", models.PlacementTop))
	})
}
