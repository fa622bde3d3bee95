package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// adminTestDB adapts a sqlmock connection to the database.DB interface
type adminTestDB struct {
	db *sqlx.DB
}

func (m *adminTestDB) Get(dest interface{}, query string, args ...interface{}) error {
	return m.db.Get(dest, query, args...)
}

func (m *adminTestDB) Select(dest interface{}, query string, args ...interface{}) error {
	return m.db.Select(dest, query, args...)
}

func (m *adminTestDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *adminTestDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *adminTestDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *adminTestDB) Ping() error { return m.db.Ping() }

func (m *adminTestDB) Close() error { return m.db.Close() }

func newAdminRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := &adminTestDB{db: sqlx.NewDb(db, "sqlmock")}
	h := NewAdminHandler(database.NewHotelRepository(wrapped),
		database.NewUserRepository(wrapped), bcrypt.MinCost)

	router := gin.New()
	router.POST("/admin/users", h.CreateUser)
	return router, mock
}

func TestAdminCreateUser(t *testing.T) {
	hotelID := uuid.New()

	t.Run("provisions a hashed account", func(t *testing.T) {
		router, mock := newAdminRouter(t)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		body := `{"hotel_id":"` + hotelID.String() + `","email":"marco@thebell.example",` +
			`"password":"hunter2hunter2","full_name":"Marco Ruiz","role":"bellman"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "marco@thebell.example")
		// The hash never leaves the server, and the raw password is never stored
		assert.NotContains(t, w.Body.String(), "hunter2hunter2")
		assert.NotContains(t, w.Body.String(), "password_hash")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		router, mock := newAdminRouter(t)

		body := `{"hotel_id":"` + hotelID.String() + `","email":"x@thebell.example",` +
			`"password":"hunter2hunter2","full_name":"X","role":"concierge"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-admin roles need a hotel", func(t *testing.T) {
		router, mock := newAdminRouter(t)

		body := `{"email":"y@thebell.example","password":"hunter2hunter2",` +
			`"full_name":"Y","role":"` + string(models.RoleFrontDesk) + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
