package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/internal/services"
	"github.com/thebell/bellstaff-backend/pkg/validator"
)

// QueueHandler exposes the bellman queue engine
type QueueHandler struct {
	queue *services.QueueService
}

// NewQueueHandler creates a new QueueHandler
func NewQueueHandler(queue *services.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// Snapshot handles GET /queue
func (h *QueueHandler) Snapshot(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	snapshot, err := h.queue.Snapshot(userCtx.HotelID, middleware.QueueSession(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// AddBellmanRequest is the temporary bellman payload
type AddBellmanRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddBellman handles POST /queue/bellmen
func (h *QueueHandler) AddBellman(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req AddBellmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Bellman name is required")
		return
	}

	entry, err := h.queue.AddTemporaryBellman(userCtx.HotelID, middleware.QueueSession(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bellman": entry})
}

// RemoveBellman handles DELETE /queue/bellmen/:id
func (h *QueueHandler) RemoveBellman(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	if err := h.queue.RemoveTemporaryBellman(userCtx.HotelID, middleware.QueueSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// AssignRequest names a task and an assignee. Exactly one of user_id
// and local_id must be set.
type AssignRequest struct {
	TaskID  uuid.UUID `json:"task_id" binding:"required"`
	UserID  uuid.UUID `json:"user_id"`
	LocalID string    `json:"local_id"`
}

func (r AssignRequest) assignee() models.Assignee {
	if r.LocalID != "" {
		return models.Assignee{Kind: models.AssigneeTemporary, LocalID: r.LocalID}
	}
	return models.Assignee{Kind: models.AssigneeUser, UserID: r.UserID}
}

// Assign handles POST /queue/assign
func (h *QueueHandler) Assign(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.CanManageQueue() && !userCtx.Role.CanCreateTasks() {
		respondError(c, services.ErrForbidden)
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "task_id and an assignee are required")
		return
	}

	task, err := h.queue.AssignExistingTask(userCtx.HotelID, middleware.QueueSession(c), req.TaskID, req.assignee())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// CreateAndAssignRequest files and hands out a task in one call
type CreateAndAssignRequest struct {
	validator.TaskInput
	UserID  uuid.UUID `json:"user_id"`
	LocalID string    `json:"local_id"`
}

// CreateAndAssign handles POST /queue/tasks
func (h *QueueHandler) CreateAndAssign(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.CanCreateTasks() && !userCtx.Role.CanManageQueue() {
		respondError(c, services.ErrForbidden)
		return
	}

	var req CreateAndAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid task payload")
		return
	}

	assignee := models.Assignee{Kind: models.AssigneeUser, UserID: req.UserID}
	if req.LocalID != "" {
		assignee = models.Assignee{Kind: models.AssigneeTemporary, LocalID: req.LocalID}
	}

	task, err := h.queue.CreateAndAssignTask(userCtx.HotelID, middleware.QueueSession(c),
		models.NewNullUUID(userCtx.UserID), assignee, req.TaskInput)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// ResolveRequest ends a bellman's current work
type ResolveRequest struct {
	TaskID    uuid.UUID            `json:"task_id"`
	UserID    uuid.UUID            `json:"user_id"`
	LocalID   string               `json:"local_id"`
	Outcome   models.TaskStatus    `json:"outcome" binding:"required"`
	Placement models.LinePlacement `json:"placement"`
}

// Resolve handles POST /queue/resolve
func (h *QueueHandler) Resolve(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Outcome and an assignee are required")
		return
	}

	assignee := models.Assignee{Kind: models.AssigneeUser, UserID: req.UserID}
	if req.LocalID != "" {
		assignee = models.Assignee{Kind: models.AssigneeTemporary, LocalID: req.LocalID}
	}
	// A bellman resolving their own work needs no explicit assignee
	if assignee.Kind == models.AssigneeUser && assignee.UserID == uuid.Nil && userCtx.Role.IsBellStaff() {
		assignee.UserID = userCtx.UserID
	}

	// Only queue managers may resolve on someone else's behalf
	if !userCtx.Role.CanManageQueue() {
		selfResolve := userCtx.Role.IsBellStaff() &&
			assignee.Kind == models.AssigneeUser && assignee.UserID == userCtx.UserID
		if !selfResolve {
			respondError(c, services.ErrForbidden)
			return
		}
	}

	result, err := h.queue.ResolveTask(userCtx.HotelID, middleware.QueueSession(c),
		assignee, req.TaskID, req.Outcome, req.Placement)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
