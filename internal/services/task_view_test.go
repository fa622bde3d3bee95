package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/models"
)

func viewTask(id uuid.UUID, status models.TaskStatus, updatedAt time.Time) models.Task {
	return models.Task{
		ID:         id,
		HotelID:    uuid.New(),
		Title:      "Check In - Room 405",
		RoomNumber: "405",
		Status:     status,
		UpdatedAt:  updatedAt,
	}
}

func TestTaskViewApply(t *testing.T) {
	now := time.Now()

	t.Run("insert then status change emits changes", func(t *testing.T) {
		view := NewTaskView()
		id := uuid.New()

		change := view.Apply("INSERT", viewTask(id, models.TaskStatusPending, now))
		require.NotNil(t, change)
		assert.Equal(t, models.TaskStatusPending, change.Task.Status)

		change = view.Apply("UPDATE", viewTask(id, models.TaskStatusInProgress, now.Add(time.Second)))
		require.NotNil(t, change)
		assert.Equal(t, models.TaskStatusPending, change.Previous)
		assert.Equal(t, models.TaskStatusInProgress, change.Task.Status)
	})

	t.Run("update without status change is silent", func(t *testing.T) {
		view := NewTaskView()
		id := uuid.New()

		view.Apply("INSERT", viewTask(id, models.TaskStatusPending, now))
		change := view.Apply("UPDATE", viewTask(id, models.TaskStatusPending, now.Add(time.Second)))
		assert.Nil(t, change)
	})

	t.Run("update for unknown id upserts", func(t *testing.T) {
		// The feed is gap-prone: the insert may have been missed
		view := NewTaskView()
		id := uuid.New()

		change := view.Apply("UPDATE", viewTask(id, models.TaskStatusInProgress, now))
		require.NotNil(t, change)
		assert.Equal(t, 1, view.Len())
	})

	t.Run("delete removes and repeats are silent", func(t *testing.T) {
		view := NewTaskView()
		id := uuid.New()

		view.Apply("INSERT", viewTask(id, models.TaskStatusPending, now))
		change := view.Apply("DELETE", viewTask(id, models.TaskStatusPending, now))
		require.NotNil(t, change)
		assert.True(t, change.Removed)

		assert.Nil(t, view.Apply("DELETE", viewTask(id, models.TaskStatusPending, now)))
		assert.Equal(t, 0, view.Len())
	})
}

func TestTaskViewReconcile(t *testing.T) {
	now := time.Now()

	t.Run("reconcile is idempotent", func(t *testing.T) {
		view := NewTaskView()
		snapshot := []models.Task{
			viewTask(uuid.New(), models.TaskStatusPending, now),
			viewTask(uuid.New(), models.TaskStatusInProgress, now),
		}

		first := view.Reconcile(snapshot)
		assert.Len(t, first, 2)

		second := view.Reconcile(snapshot)
		assert.Empty(t, second)
	})

	t.Run("status drift is repaired and reported", func(t *testing.T) {
		view := NewTaskView()
		id := uuid.New()
		view.Seed([]models.Task{viewTask(id, models.TaskStatusPending, now)})

		changes := view.Reconcile([]models.Task{viewTask(id, models.TaskStatusCompleted, now.Add(time.Minute))})
		require.Len(t, changes, 1)
		assert.Equal(t, models.TaskStatusPending, changes[0].Previous)
		assert.Equal(t, models.TaskStatusCompleted, changes[0].Task.Status)
	})

	t.Run("touched timestamp without status change updates silently", func(t *testing.T) {
		view := NewTaskView()
		id := uuid.New()
		view.Seed([]models.Task{viewTask(id, models.TaskStatusPending, now)})

		changes := view.Reconcile([]models.Task{viewTask(id, models.TaskStatusPending, now.Add(time.Minute))})
		assert.Empty(t, changes)

		stored, ok := view.Get(id)
		require.True(t, ok)
		assert.True(t, stored.UpdatedAt.Equal(now.Add(time.Minute)))
	})

	t.Run("rows outside the snapshot window are dropped", func(t *testing.T) {
		view := NewTaskView()
		stale := viewTask(uuid.New(), models.TaskStatusCompleted, now.Add(-48*time.Hour))
		kept := viewTask(uuid.New(), models.TaskStatusPending, now)
		view.Seed([]models.Task{stale, kept})

		changes := view.Reconcile([]models.Task{kept})
		require.Len(t, changes, 1)
		assert.True(t, changes[0].Removed)
		assert.Equal(t, stale.ID, changes[0].Task.ID)
		assert.Equal(t, 1, view.Len())
	})

	t.Run("feed and poll converge to the same view", func(t *testing.T) {
		id := uuid.New()
		pending := viewTask(id, models.TaskStatusPending, now)
		done := viewTask(id, models.TaskStatusCompleted, now.Add(time.Minute))

		viaFeed := NewTaskView()
		viaFeed.Seed([]models.Task{pending})
		viaFeed.Apply("UPDATE", done)

		viaPoll := NewTaskView()
		viaPoll.Seed([]models.Task{pending})
		viaPoll.Reconcile([]models.Task{done})

		feedTask, _ := viaFeed.Get(id)
		pollTask, _ := viaPoll.Get(id)
		assert.Equal(t, feedTask.Status, pollTask.Status)
	})
}
