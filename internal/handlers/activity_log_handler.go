package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/internal/services"
)

const defaultActivityLogLimit = 200

// ActivityLogHandler handles activity log queries
type ActivityLogHandler struct {
	logs *database.ActivityLogRepository
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logs *database.ActivityLogRepository) *ActivityLogHandler {
	return &ActivityLogHandler{logs: logs}
}

// List handles GET /activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	if !userCtx.Role.CanManageQueue() && !userCtx.Role.CanCreateTasks() {
		respondError(c, services.ErrForbidden)
		return
	}

	params := database.ActivityLogListParams{
		Search:      c.Query("search"),
		Status:      models.ActivityStatus(c.Query("action")),
		BellmanName: c.Query("bellman"),
		Limit:       defaultActivityLogLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			badRequest(c, "limit must be a positive number")
			return
		}
		params.Limit = limit
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "from must be an RFC 3339 timestamp")
			return
		}
		params.RecordedFrom = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "to must be an RFC 3339 timestamp")
			return
		}
		params.RecordedTo = to
	}

	logs, err := h.logs.List(userCtx.HotelID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
