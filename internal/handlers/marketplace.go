// internal/handlers/marketplace.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/i18n"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/services"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

type MarketplaceHandler struct {
	marketplaceService *services.MarketplaceService
}

func NewMarketplaceHandler(marketplaceService *services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
	}
}

// POST /marketplace/listings
func (h *MarketplaceHandler) List(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ListNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.marketplaceService.List(address, &req)
	if err != nil {
		var notOwner *contracts.NotNFTOwnerError
		var alreadyListed *contracts.NFTAlreadyListedError
		switch {
		case errors.As(err, &notOwner):
			utils.ForbiddenResponse(c, err.Error())
		case errors.As(err, &alreadyListed):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, contracts.ErrNotApproved):
			utils.BadRequestResponse(c, err.Error(), nil)
		case isNotFound(err):
			utils.NotFoundResponse(c, "nft")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": listing,
	})
}

// GET /marketplace/listings
func (h *MarketplaceHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	status := models.ListingStatus(c.DefaultQuery("status", string(models.ListingStatusActive)))
	if c.Query("status") == "all" {
		status = ""
	}

	result, err := h.marketplaceService.Search(status, params)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /marketplace/listings/:id
func (h *MarketplaceHandler) Get(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.marketplaceService.Get(listingID)
	if err != nil {
		utils.NotFoundResponse(c, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// POST /marketplace/listings/:id/buy
func (h *MarketplaceHandler) Buy(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.BuyNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sale, err := h.marketplaceService.Buy(address, listingID, &req)
	if err != nil {
		var notActive *contracts.ListingNotActiveError
		var underpaid *contracts.InsufficientPaymentError
		switch {
		case errors.As(err, &notActive):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyListingNotActive))
		case errors.As(err, &underpaid):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPurchaseUnderpaid), gin.H{
				"required_wei": underpaid.Required.String(),
				"sent_wei":     underpaid.Sent.String(),
			})
		case errors.Is(err, contracts.ErrInsufficientFunds):
			utils.PaymentRequiredResponse(c, err.Error(), nil)
		case isNotFound(err):
			utils.NotFoundResponse(c, "listing")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPurchaseSuccess),
		"sale":    sale,
	})
}

// DELETE /marketplace/listings/:id
func (h *MarketplaceHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	if err := h.marketplaceService.Cancel(address, listingID); err != nil {
		var notActive *contracts.ListingNotActiveError
		switch {
		case errors.Is(err, contracts.ErrNotSeller):
			utils.ForbiddenResponse(c, err.Error())
		case errors.As(err, &notActive):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyListingNotActive))
		case isNotFound(err):
			utils.NotFoundResponse(c, "listing")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCancelled),
	})
}

// PUT /marketplace/listings/:id/price
func (h *MarketplaceHandler) UpdatePrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.marketplaceService.UpdatePrice(address, listingID, &req)
	if err != nil {
		var notActive *contracts.ListingNotActiveError
		switch {
		case errors.Is(err, contracts.ErrNotSeller):
			utils.ForbiddenResponse(c, err.Error())
		case errors.As(err, &notActive):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyListingNotActive))
		case isNotFound(err):
			utils.NotFoundResponse(c, "listing")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingPriceUpdated),
		"listing": listing,
	})
}

// GET /marketplace/sales
func (h *MarketplaceHandler) Sales(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.marketplaceService.Sales(c.Query("address"), params)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.PaginatedResponse(c, *result)
}
