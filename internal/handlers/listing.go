// internal/handlers/listing.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/utils"
)

// ListingHandler serves the extracted market rows to reporting consumers.
// Raw rows only; aggregation is the consumer's job.
type ListingHandler struct {
	listings  repository.ListingRepository
	exchanges repository.ExchangeRepository
	services  repository.ServiceRepository
}

func NewListingHandler(
	listings repository.ListingRepository,
	exchanges repository.ExchangeRepository,
	services repository.ServiceRepository,
) *ListingHandler {
	return &ListingHandler{listings: listings, exchanges: exchanges, services: services}
}

func (h *ListingHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.ListingFilter{
		Type:     models.ListingType(c.Query("type")),
		Currency: models.Currency(c.Query("currency")),
		Status:   models.ListingStatus(c.Query("status")),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid product_id", nil)
			return
		}
		filter.ProductID = &id
	}

	rows, total, err := h.listings.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params))
}

func (h *ListingHandler) ListExchanges(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.exchanges.List(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params))
}

func (h *ListingHandler) ListServiceListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.services.ListListings(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params))
}
