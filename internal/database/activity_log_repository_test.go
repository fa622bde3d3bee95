package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/models"
)

func TestActivityLogAppendOrUpdate(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewActivityLogRepository(mockDB)

	hotelID := uuid.New()

	t.Run("Assigned always inserts", func(t *testing.T) {
		// Even with a matching earlier row, an assignment starts a new line
		mock.ExpectQuery(`SELECT id, status FROM activity_logs`).
			WithArgs(hotelID, "Carlos", "Check In - Room 405", "405", models.NewNullString("J. Smith")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(int64(7), "completed"))
		mock.ExpectQuery(`INSERT INTO activity_logs`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(8), time.Now()))

		entry := &models.ActivityLog{
			HotelID:     hotelID,
			BellmanName: "Carlos",
			TaskType:    "Check In - Room 405",
			RoomNumber:  "405",
			GuestName:   models.NewNullString("J. Smith"),
			Status:      models.ActivityAssigned,
		}
		require.NoError(t, repo.AppendOrUpdate(entry))
		assert.Equal(t, int64(8), entry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Completion collapses onto assignment row", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, status FROM activity_logs`).
			WithArgs(hotelID, "Carlos", "Check In - Room 405", "405", models.NewNullString("J. Smith")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(int64(8), "assigned"))
		mock.ExpectQuery(`UPDATE activity_logs`).
			WithArgs(int64(8), models.ActivityCompleted, models.NullString{}).
			WillReturnRows(sqlmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(8), time.Now()))

		entry := &models.ActivityLog{
			HotelID:     hotelID,
			BellmanName: "Carlos",
			TaskType:    "Check In - Room 405",
			RoomNumber:  "405",
			GuestName:   models.NewNullString("J. Smith"),
			Status:      models.ActivityCompleted,
		}
		require.NoError(t, repo.AppendOrUpdate(entry))
		assert.Equal(t, int64(8), entry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No prior row inserts", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, status FROM activity_logs`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
		mock.ExpectQuery(`INSERT INTO activity_logs`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(9), time.Now()))

		entry := &models.ActivityLog{
			HotelID:     hotelID,
			BellmanName: "Maria",
			TaskType:    "Room Move - 304 → 812",
			RoomNumber:  "304 → 812",
			Status:      models.ActivityEmptyRoom,
		}
		require.NoError(t, repo.AppendOrUpdate(entry))
		assert.Equal(t, int64(9), entry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityLogAppend(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewActivityLogRepository(mockDB)

	hotelID := uuid.New()

	// No lookup, no collapse: Append inserts even when an identical
	// earlier row exists
	mock.ExpectQuery(`INSERT INTO activity_logs`).
		WithArgs(hotelID, "Carlos", "Duty Status", "-", models.ActivityOffDuty,
			models.NullString{}, models.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(12), time.Now()))

	entry := &models.ActivityLog{
		HotelID:     hotelID,
		BellmanName: "Carlos",
		TaskType:    "Duty Status",
		RoomNumber:  "-",
		Status:      models.ActivityOffDuty,
	}
	require.NoError(t, repo.Append(entry))
	assert.Equal(t, int64(12), entry.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogDeleteOlderThan(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewActivityLogRepository(mockDB)

	cutoff := time.Now().AddDate(0, 0, -90)

	mock.ExpectExec(`DELETE FROM activity_logs`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	pruned, err := repo.DeleteOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pruned)

	assert.NoError(t, mock.ExpectationsWereMet())
}
