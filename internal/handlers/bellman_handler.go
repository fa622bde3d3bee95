package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/internal/services"
)

// BellmanHandler handles bell staff roster requests
type BellmanHandler struct {
	queue *services.QueueService
}

// NewBellmanHandler creates a new BellmanHandler
func NewBellmanHandler(queue *services.QueueService) *BellmanHandler {
	return &BellmanHandler{queue: queue}
}

// List handles GET /bellmen
func (h *BellmanHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	snapshot, err := h.queue.Snapshot(userCtx.HotelID, middleware.QueueSession(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bellmen":   snapshot.Bellmen,
		"temporary": snapshot.Temporary,
	})
}

// SetStatusRequest is the duty status payload
type SetStatusRequest struct {
	Status models.BellmanStatus `json:"status" binding:"required"`
}

// SetMyStatus handles PUT /bellmen/me/status
func (h *BellmanHandler) SetMyStatus(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.IsBellStaff() {
		respondError(c, services.ErrForbidden)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	bellman, err := h.queue.SetBellmanStatus(userCtx.HotelID, userCtx.UserID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bellman": bellman})
}

// SetStatus handles PUT /bellmen/:id/status for queue managers
func (h *BellmanHandler) SetStatus(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.CanManageQueue() {
		respondError(c, services.ErrForbidden)
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid bellman id")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	bellman, err := h.queue.SetBellmanStatus(userCtx.HotelID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bellman": bellman})
}
