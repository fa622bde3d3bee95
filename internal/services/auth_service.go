package services

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login and token refresh
type AuthService struct {
	users  *database.UserRepository
	jwt    *jwt.Service
	logger *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtService, logger: logger}
}

// TokenPair carries both tokens issued on login or refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords both report ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	hotelID := ""
	if user.HotelID.Valid {
		hotelID = user.HotelID.UUID.String()
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, string(user.Role), hotelID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
