package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContainerService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]dto.ContainerView, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (dto.ContainerDetails, error)
	SetPosition(ctx context.Context, ownerID, id uuid.UUID, x, y *float64) (models.Container, error)
	Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Container, error)
	Create(ctx context.Context, ownerID uuid.UUID) (models.Container, error)
	Merge(ctx context.Context, ownerID, sourceID, targetID uuid.UUID) (dto.MergeResponse, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ContainerHandler struct {
	log              *slog.Logger
	containerService ContainerService
}

func NewContainerHandler(log *slog.Logger, containerService ContainerService) *ContainerHandler {
	return &ContainerHandler{
		log:              log,
		containerService: containerService,
	}
}

// List
// @Summary Live houses with their occupancy
// @Tags containers
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} dto.ContainerView
// @Router /api/containers [get]
func (h *ContainerHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	views, err := h.containerService.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Get
// @Summary A house and the creatures living in it
// @Tags containers
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Container id"
// @Success 200 {object} dto.ContainerDetails
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/containers/{id} [get]
func (h *ContainerHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.containerService.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// SetPosition
// @Summary Move a house on the map
// @Description Coordinates are clamped to [0, 100]; a missing axis keeps its value
// @Tags containers
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Container id"
// @Param   body body dto.PositionRequest true "Position"
// @Success 200 {object} dto.ContainerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/containers/{id}/position [put]
func (h *ContainerHandler) SetPosition(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.PositionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	container, err := h.containerService.SetPosition(c.Request.Context(), owner, id, input.XPct, input.YPct)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContainerResponse{Container: container})
}

// Rename
// @Summary Rename a house
// @Tags containers
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Container id"
// @Param   body body dto.NameRequest true "Name"
// @Success 200 {object} dto.ContainerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/containers/{id}/name [patch]
func (h *ContainerHandler) Rename(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.NameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	container, err := h.containerService.Rename(c.Request.Context(), owner, id, input.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContainerResponse{Container: container})
}

// Create
// @Summary Build an empty house
// @Tags containers
// @Produce  json
// @Security BearerAuth
// @Success 201 {object} dto.ContainerResponse
// @Router /api/containers/create [post]
func (h *ContainerHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	container, err := h.containerService.Create(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ContainerResponse{Container: container})
}

// Merge
// @Summary Merge two full houses of equal capacity into a bigger one
// @Tags containers
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body dto.MergeRequest true "Source and target"
// @Success 200 {object} dto.MergeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/containers/merge [post]
func (h *ContainerHandler) Merge(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var input dto.MergeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.containerService.Merge(c.Request.Context(), owner, input.SourceID, input.TargetID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete
// @Summary Remove an empty house
// @Tags containers
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Container id"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/containers/{id} [delete]
func (h *ContainerHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.containerService.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "container deleted"})
}
