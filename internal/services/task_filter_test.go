package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/models"
)

func TestBucketBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 1 AM UTC on March 10 is still March 9 in New York
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	t.Run("today uses local midnight, not UTC", func(t *testing.T) {
		after, before := BucketBounds(BucketToday, now, loc)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), after)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), before)
	})

	t.Run("yesterday is the previous local day", func(t *testing.T) {
		after, before := BucketBounds(BucketYesterday, now, loc)
		assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, loc), after)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), before)
	})

	t.Run("week spans seven local days", func(t *testing.T) {
		after, before := BucketBounds(BucketWeek, now, loc)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), after)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), before)
	})

	t.Run("month starts on the first", func(t *testing.T) {
		after, _ := BucketBounds(BucketMonth, now, loc)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), after)
	})

	t.Run("all is unbounded", func(t *testing.T) {
		after, before := BucketBounds(BucketAll, now, loc)
		assert.True(t, after.IsZero())
		assert.True(t, before.IsZero())
	})
}

func TestFilterByCategory(t *testing.T) {
	tasks := []models.Task{
		{Title: "Check In - Room 405"},
		{Title: "Check Out - Room 1201"},
		{Title: "Room Move - 304 → 812"},
		{Title: "Luggage delivery"},
	}

	assert.Len(t, FilterByCategory(tasks, models.TaskCategoryCheckIn), 1)
	assert.Len(t, FilterByCategory(tasks, models.TaskCategoryCheckOut), 1)
	assert.Len(t, FilterByCategory(tasks, models.TaskCategoryRoomMove), 1)
	assert.Len(t, FilterByCategory(tasks, models.TaskCategoryOther), 1)
	assert.Len(t, FilterByCategory(tasks, ""), 4)
}
