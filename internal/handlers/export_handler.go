package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/internal/services"
)

const maxExportRows = 10000

// ExportHandler turns screen data into CSV downloads
type ExportHandler struct{}

// NewExportHandler creates a new ExportHandler
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportFilters echoes the filters that produced the exported rows
type ExportFilters struct {
	Search string `json:"search"`
	Action string `json:"action"`
	Date   string `json:"date"`
}

// ActivityExportRequest is the activity log export payload
type ActivityExportRequest struct {
	Records []models.ActivityLog `json:"records" binding:"required"`
	Filters ExportFilters        `json:"filters"`
}

// ActivityLogs handles POST /export/activity-logs
func (h *ExportHandler) ActivityLogs(c *gin.Context) {
	if _, ok := middleware.GetUserContext(c); !ok {
		respondError(c, services.ErrForbidden)
		return
	}

	var req ActivityExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "records are required")
		return
	}
	if len(req.Records) > maxExportRows {
		badRequest(c, fmt.Sprintf("export is limited to %d rows", maxExportRows))
		return
	}

	filename := fmt.Sprintf("activity-logs-%s.csv", time.Now().Format("2006-01-02"))
	writeCSVHeaders(c, filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Recorded At", "Bellman", "Action", "Task Type", "Room", "Guest", "Ticket"})
	for _, entry := range req.Records {
		_ = w.Write([]string{
			entry.RecordedAt.Format(time.RFC3339),
			entry.BellmanName,
			string(entry.Status),
			entry.TaskType,
			entry.RoomNumber,
			entry.GuestName.String,
			entry.TicketNumber.String,
		})
	}
	w.Flush()
}

// ReportExportRequest is the task report export payload
type ReportExportRequest struct {
	Records []models.Task `json:"records" binding:"required"`
	Filters ExportFilters `json:"filters"`
}

// Reports handles POST /export/reports
func (h *ExportHandler) Reports(c *gin.Context) {
	if _, ok := middleware.GetUserContext(c); !ok {
		respondError(c, services.ErrForbidden)
		return
	}

	var req ReportExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "records are required")
		return
	}
	if len(req.Records) > maxExportRows {
		badRequest(c, fmt.Sprintf("export is limited to %d rows", maxExportRows))
		return
	}

	filename := fmt.Sprintf("task-report-%s.csv", time.Now().Format("2006-01-02"))
	writeCSVHeaders(c, filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Created At", "Title", "Status", "Priority", "Room", "Guest", "Updated At"})
	for _, task := range req.Records {
		_ = w.Write([]string{
			task.CreatedAt.Format(time.RFC3339),
			task.Title,
			string(task.Status),
			string(task.Priority),
			task.RoomNumber,
			task.GuestName.String,
			task.UpdatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

func writeCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
}
