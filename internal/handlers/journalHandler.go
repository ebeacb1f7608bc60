package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"coinlings/internal/domain/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JournalService interface {
	Sprites(ctx context.Context) (dto.SpriteCatalog, error)
	Unlocked(ctx context.Context, ownerID uuid.UUID) (dto.UnlockedResponse, error)
}

type JournalHandler struct {
	log            *slog.Logger
	journalService JournalService
}

func NewJournalHandler(log *slog.Logger, journalService JournalService) *JournalHandler {
	return &JournalHandler{
		log:            log,
		journalService: journalService,
	}
}

// Sprites
// @Summary Every sprite, grouped by rarity
// @Tags journal
// @Produce  json
// @Success 200 {object} dto.SpriteCatalog
// @Router /api/journal/sprites [get]
func (h *JournalHandler) Sprites(c *gin.Context) {
	catalog, err := h.journalService.Sprites(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// Unlocked
// @Summary Sprites the user has ever owned
// @Tags journal
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.UnlockedResponse
// @Router /api/journal/unlocked [get]
func (h *JournalHandler) Unlocked(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	resp, err := h.journalService.Unlocked(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
