package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

const userColumns = `id, hotel_id, email, password_hash, full_name, role,
	   bellman_status, line_position, is_active, created_at, updated_at`

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves a user by email for login
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND is_active = TRUE
	`

	var user models.User
	if err := r.db.Get(&user, query, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user models.User
	if err := r.db.Get(&user, query, userID); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user with a pre-hashed password
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, hotel_id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.HotelID, strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash, user.FullName, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
