// internal/handlers/pending.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/services"
	"github.com/tgmarket/market-backend/internal/utils"
)

// PendingHandler exposes the moderation queue: listing open entries and
// applying reviewer decisions.
type PendingHandler struct {
	pendings   repository.PendingRepository
	moderation *services.ModerationService
}

func NewPendingHandler(pendings repository.PendingRepository, moderation *services.ModerationService) *PendingHandler {
	return &PendingHandler{pendings: pendings, moderation: moderation}
}

func (h *PendingHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.PendingStatus(c.DefaultQuery("status", string(models.PendingStatusPending)))

	rows, total, err := h.pendings.List(c.Request.Context(), status, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params))
}

type reviewRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
	Comment   string `json:"comment" validate:"max=1000"`
}

func (h *PendingHandler) Approve(c *gin.Context) {
	id, req, ok := h.reviewInput(c)
	if !ok {
		return
	}

	productID := uuid.Nil
	if req.ProductID != "" {
		productID = uuid.MustParse(req.ProductID)
	}

	pending, err := h.moderation.Approve(c.Request.Context(), id, productID, req.Comment)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	utils.SuccessResponse(c, pending)
}

func (h *PendingHandler) Reject(c *gin.Context) {
	id, req, ok := h.reviewInput(c)
	if !ok {
		return
	}

	pending, err := h.moderation.Reject(c.Request.Context(), id, req.Comment)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	utils.SuccessResponse(c, pending)
}

func (h *PendingHandler) Merge(c *gin.Context) {
	id, req, ok := h.reviewInput(c)
	if !ok {
		return
	}
	if req.ProductID == "" {
		utils.BadRequestResponse(c, "product_id is required for merge", nil)
		return
	}

	alias, err := h.moderation.Merge(c.Request.Context(), id, uuid.MustParse(req.ProductID), req.Comment)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	utils.SuccessResponse(c, alias)
}

func (h *PendingHandler) CreateProduct(c *gin.Context) {
	id, req, ok := h.reviewInput(c)
	if !ok {
		return
	}

	product, err := h.moderation.CreateProduct(c.Request.Context(), id, req.Comment)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	utils.CreatedResponse(c, product)
}

func (h *PendingHandler) reviewInput(c *gin.Context) (uuid.UUID, reviewRequest, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid queue entry id", nil)
		return uuid.Nil, reviewRequest{}, false
	}

	var req reviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "invalid JSON body", err.Error())
			return uuid.Nil, reviewRequest{}, false
		}
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return uuid.Nil, reviewRequest{}, false
	}
	return id, req, true
}

func (h *PendingHandler) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFoundResponse(c, "queue entry")
	case errors.Is(err, services.ErrNotPending):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}
