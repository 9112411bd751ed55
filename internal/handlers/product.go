// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/services"
	"github.com/tgmarket/market-backend/internal/utils"
)

// ProductHandler serves the product catalog and lets operators seed it
// directly, skipping the moderation queue.
type ProductHandler struct {
	products repository.ProductRepository
	catalog  *services.CatalogCache
}

func NewProductHandler(products repository.ProductRepository, catalog *services.CatalogCache) *ProductHandler {
	return &ProductHandler{products: products, catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.products.List(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params))
}

type createProductRequest struct {
	Icon  string `json:"icon" validate:"max=32"`
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Grade string `json:"grade" validate:"omitempty,oneof=I II III III+ IV V"`
	Type  string `json:"type" validate:"max=50"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid JSON body", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	normalized := services.NormalizeTitle(req.Name)
	if normalized == "" {
		utils.BadRequestResponse(c, "name has no matchable content", nil)
		return
	}

	product := &models.Product{
		Icon:           req.Icon,
		Name:           req.Name,
		NormalizedName: normalized,
		Grade:          req.Grade,
		Type:           req.Type,
		Status:         models.ProductStatusOK,
		IsVerified:     true,
	}
	if err := h.products.Create(c.Request.Context(), product); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	h.catalog.Invalidate()
	utils.CreatedResponse(c, product)
}
