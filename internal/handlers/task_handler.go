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

// TaskHandler handles the task list surface
type TaskHandler struct {
	tasks *services.TaskService
	queue *services.QueueService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService, queue *services.QueueService) *TaskHandler {
	return &TaskHandler{tasks: tasks, queue: queue}
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	filter := services.TaskFilter{
		Search:   c.Query("search"),
		Status:   models.TaskStatus(c.Query("status")),
		Category: models.TaskCategory(c.Query("category")),
		Priority: models.TaskPriority(c.Query("priority")),
		Bucket:   services.DateBucket(c.Query("date")),
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := uuid.Parse(assignedTo)
		if err != nil {
			badRequest(c, "assigned_to must be a valid id")
			return
		}
		filter.AssignedTo = id
	}

	tasks, err := h.tasks.List(userCtx.HotelID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// Create handles POST /tasks. The task is filed as pending for the
// queue to hand out later.
func (h *TaskHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.CanCreateTasks() {
		respondError(c, services.ErrForbidden)
		return
	}

	var input validator.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid task payload")
		return
	}

	task, err := h.tasks.Create(userCtx.HotelID, models.NewNullUUID(userCtx.UserID), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Take handles POST /tasks/:id/take, a bellman's self-service pickup
func (h *TaskHandler) Take(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.IsBellStaff() {
		respondError(c, services.ErrForbidden)
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid task id")
		return
	}

	task, err := h.queue.TakeTask(userCtx.HotelID, userCtx.UserID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateStatusRequest is the status patch payload
type UpdateStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /tasks/:id/status with guarded transitions
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid task id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	current, err := h.tasks.Get(userCtx.HotelID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	isAssignee := current.AssignedTo.Valid && current.AssignedTo.UUID == userCtx.UserID
	allowed := false
	for _, action := range models.AllowedTaskActions(userCtx.Role, isAssignee, current.Status) {
		if action == models.ActionComplete || action == models.ActionCancel {
			allowed = true
			break
		}
	}
	if req.Status == models.TaskStatusInProgress {
		allowed = userCtx.Role.CanManageQueue()
	}
	if !allowed {
		respondError(c, services.ErrForbidden)
		return
	}

	task, err := h.tasks.UpdateStatus(userCtx.HotelID, taskID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Stats handles GET /tasks/stats
func (h *TaskHandler) Stats(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	stats, err := h.tasks.Stats(userCtx.HotelID, services.DateBucket(c.Query("date")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
