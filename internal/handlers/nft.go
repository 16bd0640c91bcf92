// internal/handlers/nft.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/i18n"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/services"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

type NFTHandler struct {
	nftService *services.NFTService
}

func NewNFTHandler(nftService *services.NFTService) *NFTHandler {
	return &NFTHandler{
		nftService: nftService,
	}
}

// POST /nfts/mint
func (h *NFTHandler) Mint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	token, err := h.nftService.Mint(address, &req)
	if err != nil {
		var notOwner *contracts.NotCopyrightOwnerError
		var alreadyMinted *contracts.CopyrightAlreadyMintedError
		var badRoyalty *contracts.InvalidRoyaltyPercentageError
		switch {
		case errors.As(err, &notOwner):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyNFTNotCreator))
		case errors.As(err, &alreadyMinted):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyNFTAlreadyMinted))
		case errors.As(err, &badRoyalty):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyNFTRoyaltyRange), gin.H{
				"given": badRoyalty.Given,
				"min":   badRoyalty.Min,
				"max":   badRoyalty.Max,
			})
		case isNotFound(err):
			utils.NotFoundResponse(c, "copyright")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNFTMinted),
		"token":   token,
	})
}

// GET /nfts/:id
func (h *NFTHandler) Get(c *gin.Context) {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	token, err := h.nftService.Get(tokenID)
	if err != nil {
		utils.NotFoundResponse(c, "nft")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
	})
}

// GET /nfts/copyright/:id
func (h *NFTHandler) GetByCopyright(c *gin.Context) {
	copyrightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid copyright ID", nil)
		return
	}

	token, err := h.nftService.GetByCopyright(copyrightID)
	if err != nil {
		utils.NotFoundResponse(c, "nft")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
	})
}

// GET /nfts/owner/:address
func (h *NFTHandler) ListByOwner(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.nftService.ListByOwner(c.Param("address"), params)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /nfts/:id/royalty?sale_price=<wei>
func (h *NFTHandler) RoyaltyQuote(c *gin.Context) {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	salePrice := c.DefaultQuery("sale_price", "0")
	quote, err := h.nftService.RoyaltyQuote(tokenID, salePrice)
	if err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "nft")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, quote)
}

// PUT /nfts/:id/royalty
func (h *NFTHandler) UpdateRoyalty(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	var req services.RoyaltyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	token, err := h.nftService.UpdateRoyalty(address, tokenID, &req)
	if err != nil {
		var notOwner *contracts.NotCopyrightOwnerError
		switch {
		case errors.As(err, &notOwner):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyNFTNotCreator))
		case isNotFound(err):
			utils.NotFoundResponse(c, "nft")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
	})
}

// POST /nfts/:id/approve
func (h *NFTHandler) Approve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	var req services.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.nftService.Approve(address, tokenID, &req); err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "nft")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token_id": tokenID,
		"approved": req.Approved,
	})
}

// POST /nfts/:id/transfer
func (h *NFTHandler) Transfer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	token, err := h.nftService.Transfer(address, tokenID, &req)
	if err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "nft")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
	})
}
