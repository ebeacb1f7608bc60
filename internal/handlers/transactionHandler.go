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

type LedgerService interface {
	Record(ctx context.Context, ownerID uuid.UUID, in dto.RecordTransactionRequest) (dto.RecordTransactionResponse, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error)
	SetWorthIt(ctx context.Context, ownerID, id uuid.UUID, worthIt bool) (models.Transaction, error)
	Categories(ctx context.Context, ownerID uuid.UUID, kind models.TransactionKind) (dto.CategoriesResponse, error)
	Summary(ctx context.Context, ownerID uuid.UUID) (dto.AnalyticsSummary, error)
}

type TransactionHandler struct {
	log           *slog.Logger
	ledgerService LedgerService
}

func NewTransactionHandler(log *slog.Logger, ledgerService LedgerService) *TransactionHandler {
	return &TransactionHandler{
		log:           log,
		ledgerService: ledgerService,
	}
}

// Record
// @Summary Record a credit or a debit
// @Description Moves the balance and grows or shrinks the population to match it
// @Tags transactions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body dto.RecordTransactionRequest true "Transaction"
// @Success 200 {object} dto.RecordTransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/transactions [post]
func (h *TransactionHandler) Record(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var input dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.ledgerService.Record(c.Request.Context(), owner, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List
// @Summary List transactions, newest first
// @Tags transactions
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	txs, err := h.ledgerService.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// SetWorthIt
// @Summary Mark a transaction worth it or not
// @Tags transactions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Transaction id"
// @Param   body body dto.WorthItRequest true "Flag"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/transactions/{id} [patch]
func (h *TransactionHandler) SetWorthIt(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.WorthItRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	t, err := h.ledgerService.SetWorthIt(c.Request.Context(), owner, id, *input.WorthIt)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Categories
// @Summary Default and custom categories for a kind
// @Tags transactions
// @Produce  json
// @Security BearerAuth
// @Param   type query string true "credit or debit"
// @Success 200 {object} dto.CategoriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/transactions/categories [get]
func (h *TransactionHandler) Categories(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	kind := models.TransactionKind(c.Query("type"))

	resp, err := h.ledgerService.Categories(c.Request.Context(), owner, kind)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Summary
// @Summary Spending analytics
// @Tags transactions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsSummary
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/transactions/analytics/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.Summary(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
