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

type CreatureService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Creature, error)
	Create(ctx context.Context, ownerID uuid.UUID, rarity models.Rarity) (models.Creature, error)
	Retire(ctx context.Context, ownerID, id uuid.UUID) (models.Creature, error)
	Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Creature, error)
	Move(ctx context.Context, ownerID, id, containerID uuid.UUID) (models.Creature, error)
	Sync(ctx context.Context, ownerID uuid.UUID) (dto.SyncResponse, error)
}

type CreatureHandler struct {
	log             *slog.Logger
	creatureService CreatureService
}

func NewCreatureHandler(log *slog.Logger, creatureService CreatureService) *CreatureHandler {
	return &CreatureHandler{
		log:             log,
		creatureService: creatureService,
	}
}

// List
// @Summary Living creatures, oldest first
// @Tags creatures
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Creature
// @Router /api/creatures [get]
func (h *CreatureHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	creatures, err := h.creatureService.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, creatures)
}

// Create
// @Summary Adopt a creature into the first house with room
// @Tags creatures
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param input body dto.CreateCreatureRequest false "Optional rarity"
// @Success 201 {object} models.Creature
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/creatures [post]
func (h *CreatureHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var input dto.CreateCreatureRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
	}

	creature, err := h.creatureService.Create(c.Request.Context(), owner, input.Rarity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, creature)
}

// Retire
// @Summary Retire a creature
// @Tags creatures
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Creature id"
// @Success 200 {object} models.Creature
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/creatures/{id} [delete]
func (h *CreatureHandler) Retire(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	creature, err := h.creatureService.Retire(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, creature)
}

// Rename
// @Summary Rename a creature
// @Tags creatures
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Creature id"
// @Param   body body dto.NameRequest true "Name"
// @Success 200 {object} models.Creature
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/creatures/{id}/name [patch]
func (h *CreatureHandler) Rename(c *gin.Context) {
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

	creature, err := h.creatureService.Rename(c.Request.Context(), owner, id, input.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, creature)
}

// Move
// @Summary Move a creature to another house
// @Tags creatures
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Creature id"
// @Param   body body dto.MoveCreatureRequest true "Target house"
// @Success 200 {object} models.Creature
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/creatures/{id}/container [patch]
func (h *CreatureHandler) Move(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.MoveCreatureRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	creature, err := h.creatureService.Move(c.Request.Context(), owner, id, input.ContainerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, creature)
}

// Sync
// @Summary Bring the population back in line with the balance
// @Tags creatures
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.SyncResponse
// @Router /api/creatures/sync [post]
func (h *CreatureHandler) Sync(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	resp, err := h.creatureService.Sync(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
