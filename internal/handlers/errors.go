package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"coinlings/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes {"error": msg} with the status that matches the service error.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body := gin.H{"error": svcErr.Msg}
		for k, v := range svcErr.Details {
			body[k] = v
		}
		c.JSON(statusFor(svcErr.Kind), body)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrPreconditionFailed):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ownerID reads the id the auth middleware put into the context.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}

	return id, true
}

// pathID parses the :id parameter. A malformed id cannot name anything the owner has.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
