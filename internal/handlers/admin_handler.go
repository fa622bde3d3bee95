package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler serves the cross-hotel administration surface
type AdminHandler struct {
	hotels     *database.HotelRepository
	users      *database.UserRepository
	bcryptCost int
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(hotels *database.HotelRepository, users *database.UserRepository, bcryptCost int) *AdminHandler {
	return &AdminHandler{hotels: hotels, users: users, bcryptCost: bcryptCost}
}

// ListHotels handles GET /admin/hotels
func (h *AdminHandler) ListHotels(c *gin.Context) {
	hotels, err := h.hotels.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotels": hotels, "count": len(hotels)})
}

// CreateUserRequest provisions a staff account. HotelID is empty only
// when creating another super admin.
type CreateUserRequest struct {
	HotelID  uuid.UUID   `json:"hotel_id"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	FullName string      `json:"full_name" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// CreateUser handles POST /admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, password (8+ chars), full_name and role are required")
		return
	}
	if !req.Role.IsValid() {
		badRequest(c, "Unknown role")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		badRequest(c, "Full name is required")
		return
	}
	if req.HotelID == uuid.Nil && req.Role != models.RoleAdmin {
		badRequest(c, "hotel_id is required for non-admin roles")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
	}
	if req.HotelID != uuid.Nil {
		user.HotelID = models.NewNullUUID(req.HotelID)
	}

	if err := h.users.Create(user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// HotelStats handles GET /admin/hotels/:id/stats
func (h *AdminHandler) HotelStats(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid hotel id")
		return
	}

	hotel, err := h.hotels.GetByID(hotelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Hotel not found",
				"code":    "HOTEL_NOT_FOUND",
			})
			return
		}
		respondError(c, err)
		return
	}

	stats, err := h.hotels.Stats(hotelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotel": hotel, "stats": stats})
}
