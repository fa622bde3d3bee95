package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thebell/bellstaff-backend/internal/services"
)

// respondError maps domain errors onto the API's error envelope
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "Task is no longer available",
			"code":    "TASK_CONFLICT",
		})
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Task not found",
			"code":    "TASK_NOT_FOUND",
		})
	case errors.Is(err, services.ErrBellmanNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Bellman not found",
			"code":    "BELLMAN_NOT_FOUND",
		})
	case errors.Is(err, services.ErrEmptyBellmanName),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
	case errors.Is(err, services.ErrBellmanNotInLine),
		errors.Is(err, services.ErrManualInProcess),
		errors.Is(err, services.ErrBellmanBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": err.Error(),
			"code":    "QUEUE_CONFLICT",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Invalid email or password",
			"code":    "INVALID_CREDENTIALS",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": err.Error(),
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
			"code":    "INTERNAL_ERROR",
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "validation_error",
		"message": message,
		"code":    "VALIDATION_ERROR",
	})
}
