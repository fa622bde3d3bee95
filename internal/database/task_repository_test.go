package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/models"
)

var taskTestColumns = []string{
	"id", "hotel_id", "title", "description", "room_number", "guest_name",
	"ticket_number", "priority", "status", "created_by", "assigned_to",
	"created_at", "updated_at", "completed_at",
}

func taskRow(taskID, hotelID uuid.UUID, status models.TaskStatus, assignedTo interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(taskTestColumns).AddRow(
		taskID, hotelID, "Check In - Room 405", "Luggage to room", "405", "J. Smith",
		nil, "medium", string(status), nil, assignedTo, now, now, nil,
	)
}

func TestTaskRepositoryAssignPending(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewTaskRepository(mockDB)

	hotelID := uuid.New()
	taskID := uuid.New()
	bellmanID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(taskID, hotelID, models.NewNullUUID(bellmanID)).
			WillReturnRows(taskRow(taskID, hotelID, models.TaskStatusInProgress, bellmanID))

		task, err := repo.AssignPending(hotelID, taskID, models.NewNullUUID(bellmanID))
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
		assert.Equal(t, bellmanID, task.AssignedTo.UUID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already taken returns no rows", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(taskID, hotelID, models.NewNullUUID(bellmanID)).
			WillReturnRows(sqlmock.NewRows(taskTestColumns))

		task, err := repo.AssignPending(hotelID, taskID, models.NewNullUUID(bellmanID))
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, task)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Temporary bellman assigns with null assignee", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(taskID, hotelID, models.NullUUID{}).
			WillReturnRows(taskRow(taskID, hotelID, models.TaskStatusInProgress, nil))

		task, err := repo.AssignPending(hotelID, taskID, models.NullUUID{})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
		assert.False(t, task.AssignedTo.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositoryResolve(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewTaskRepository(mockDB)

	hotelID := uuid.New()
	taskID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(taskID, hotelID, models.TaskStatusCompleted).
			WillReturnRows(taskRow(taskID, hotelID, models.TaskStatusCompleted, nil))

		task, err := repo.Resolve(hotelID, taskID, models.TaskStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusCompleted, task.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not in progress returns no rows", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(taskID, hotelID, models.TaskStatusCompleted).
			WillReturnRows(sqlmock.NewRows(taskTestColumns))

		task, err := repo.Resolve(hotelID, taskID, models.TaskStatusCompleted)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, task)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositoryResolveByAssignee(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewTaskRepository(mockDB)

	hotelID := uuid.New()
	bellmanID := uuid.New()

	t.Run("Terminates held task", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(hotelID, bellmanID, models.TaskStatusCancelled).
			WillReturnRows(taskRow(uuid.New(), hotelID, models.TaskStatusCancelled, bellmanID))

		task, err := repo.ResolveByAssignee(hotelID, bellmanID, models.TaskStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusCancelled, task.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No held task returns no rows", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(hotelID, bellmanID, models.TaskStatusCancelled).
			WillReturnRows(sqlmock.NewRows(taskTestColumns))

		_, err := repo.ResolveByAssignee(hotelID, bellmanID, models.TaskStatusCancelled)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositoryCreate(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewTaskRepository(mockDB)

	hotelID := uuid.New()

	t.Run("Defaults applied", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		task := &models.Task{
			HotelID:    hotelID,
			Title:      "Check Out - Room 1201",
			RoomNumber: "1201",
		}
		err := repo.Create(task)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, models.TaskStatusPending, task.Status)
		assert.Equal(t, models.TaskPriorityMedium, task.Priority)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error wrapped", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(fmt.Errorf("connection reset"))

		err := repo.Create(&models.Task{HotelID: hotelID, Title: "x", RoomNumber: "1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create task")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositoryList(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewTaskRepository(mockDB)

	hotelID := uuid.New()

	t.Run("Status filter narrows query", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE hotel_id = \$1 AND status = \$2`).
			WithArgs(hotelID, models.TaskStatusPending).
			WillReturnRows(taskRow(uuid.New(), hotelID, models.TaskStatusPending, nil))

		tasks, err := repo.List(hotelID, TaskListParams{Status: models.TaskStatusPending})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, models.TaskStatusPending, tasks[0].Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No filters returns all", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE hotel_id = \$1`).
			WithArgs(hotelID).
			WillReturnRows(sqlmock.NewRows(taskTestColumns))

		tasks, err := repo.List(hotelID, TaskListParams{})
		require.NoError(t, err)
		assert.Empty(t, tasks)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
