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

func TestUserRepositoryCreate(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewUserRepository(mockDB)

	hotelID := uuid.New()
	now := time.Now()

	// The email is stored trimmed and lowercased
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), models.NewNullUUID(hotelID), "marco@thebell.example",
			"$2a$12$not-a-real-hash", "Marco Ruiz", models.RoleBellman).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user := &models.User{
		HotelID:      models.NewNullUUID(hotelID),
		Email:        "  Marco@TheBell.example ",
		PasswordHash: "$2a$12$not-a-real-hash",
		FullName:     "Marco Ruiz",
		Role:         models.RoleBellman,
	}
	require.NoError(t, repo.Create(user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, now, user.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}
