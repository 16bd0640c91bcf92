// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/i18n"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/services"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

type AdminHandler struct {
	chainService       *services.ChainService
	marketplaceService *services.MarketplaceService
}

func NewAdminHandler(chainService *services.ChainService, marketplaceService *services.MarketplaceService) *AdminHandler {
	return &AdminHandler{
		chainService:       chainService,
		marketplaceService: marketplaceService,
	}
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"chain": h.chainService.Stats(),
	})
}

// PUT /admin/fee-recipient
func (h *AdminHandler) UpdateFeeRecipient(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateFeeRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.marketplaceService.UpdateFeeRecipient(address, &req); err != nil {
		utils.ForbiddenResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyAdminActionSuccess),
		"fee_recipient": req.Recipient,
	})
}

// GET /admin/events?since=<log index>
func (h *AdminHandler) Events(c *gin.Context) {
	since, err := strconv.Atoi(c.DefaultQuery("since", "0"))
	if err != nil || since < 0 {
		utils.BadRequestResponse(c, "Invalid since index", nil)
		return
	}

	logs := h.chainService.LogsSince(since)
	events := make([]gin.H, 0, len(logs))
	for i, log := range logs {
		events = append(events, eventJSON(since+i, log))
	}

	utils.SuccessResponse(c, gin.H{
		"events": events,
		"next":   since + len(logs),
	})
}

func eventJSON(index int, log contracts.Log) gin.H {
	return gin.H{
		"index":    index,
		"contract": log.Contract.Hex(),
		"topic":    log.Topic.Hex(),
		"name":     log.Event.Name(),
		"event":    log.Event,
	}
}
