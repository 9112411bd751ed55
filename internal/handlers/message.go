// internal/handlers/message.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tgmarket/market-backend/internal/services"
	"github.com/tgmarket/market-backend/internal/utils"
)

// MessageHandler receives raw message batches from the chat fetcher.
type MessageHandler struct {
	ingest *services.IngestService
}

func NewMessageHandler(ingest *services.IngestService) *MessageHandler {
	return &MessageHandler{ingest: ingest}
}

type ingestBatchRequest struct {
	Messages []services.IncomingMessage `json:"messages" validate:"required,min=1,max=500,dive"`
}

// IngestBatch stores a batch of fetched messages for parsing. Duplicate
// deliveries are absorbed, so the fetcher may overlap its windows freely.
func (h *MessageHandler) IngestBatch(c *gin.Context) {
	var req ingestBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid JSON body", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	result := h.ingest.Ingest(c.Request.Context(), req.Messages)
	utils.AcceptedResponse(c, result)
}
