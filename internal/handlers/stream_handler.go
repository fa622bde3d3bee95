package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/services"
)

// StreamHandler serves the live dashboard feed over server-sent events
type StreamHandler struct {
	sync      *services.SyncService
	heartbeat time.Duration
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(sync *services.SyncService, heartbeat time.Duration) *StreamHandler {
	return &StreamHandler{sync: sync, heartbeat: heartbeat}
}

// Stream handles GET /stream. Each client gets the current task view
// up front, then live changes until it disconnects. Heartbeats keep
// proxies from reaping idle connections.
func (h *StreamHandler) Stream(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	view, err := h.sync.View(userCtx.HotelID)
	if err != nil {
		respondError(c, err)
		return
	}

	events, cancel := h.sync.Subscribe(userCtx.HotelID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("connection", gin.H{
		"connected": h.sync.Connected(),
		"tasks":     view.Tasks(),
	})
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event.Payload)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", gin.H{"connected": h.sync.Connected()})
			return true
		}
	})
}
