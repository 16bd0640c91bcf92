// internal/handlers/copyright.go
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

type CopyrightHandler struct {
	copyrightService *services.CopyrightService
}

func NewCopyrightHandler(copyrightService *services.CopyrightService) *CopyrightHandler {
	return &CopyrightHandler{
		copyrightService: copyrightService,
	}
}

// POST /copyrights
func (h *CopyrightHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.RegisterCopyrightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	copyright, err := h.copyrightService.Register(address, &req)
	if err != nil {
		if errors.Is(err, contracts.ErrContentAlreadyRegistered) {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCopyrightDuplicateContent))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyCopyrightRegistered),
		"copyright": copyright,
	})
}

// GET /copyrights
func (h *CopyrightHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.copyrightService.Search(params)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /copyrights/:id
func (h *CopyrightHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid copyright ID", nil)
		return
	}

	copyright, err := h.copyrightService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, "copyright")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"copyright": copyright,
	})
}

// GET /copyrights/hash/:hash
func (h *CopyrightHandler) GetByHash(c *gin.Context) {
	copyright, err := h.copyrightService.GetByContentHash(c.Param("hash"))
	if err != nil {
		utils.NotFoundResponse(c, "copyright")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"copyright": copyright,
	})
}

// GET /copyrights/check/:hash
func (h *CopyrightHandler) CheckContent(c *gin.Context) {
	hash := c.Param("hash")

	utils.SuccessResponse(c, gin.H{
		"content_hash": hash,
		"registered":   h.copyrightService.CheckContent(hash),
	})
}

// GET /copyrights/creator/:address
func (h *CopyrightHandler) ListByCreator(c *gin.Context) {
	copyrights, err := h.copyrightService.ListByCreator(c.Param("address"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"copyrights": copyrights,
		"count":      len(copyrights),
	})
}

// GET /copyrights/stats
func (h *CopyrightHandler) Stats(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"registrations": h.copyrightService.Stats(),
	})
}

// GET /copyrights/asset-types
func (h *CopyrightHandler) AssetTypes(c *gin.Context) {
	types := []gin.H{
		{"id": contracts.AssetTypeArt.String(), "name": "Art"},
		{"id": contracts.AssetTypeMusic.String(), "name": "Music"},
		{"id": contracts.AssetTypeWriting.String(), "name": "Writing"},
		{"id": contracts.AssetTypePhotography.String(), "name": "Photography"},
		{"id": contracts.AssetTypeDesign.String(), "name": "Design"},
	}

	utils.SuccessResponse(c, gin.H{
		"asset_types": types,
	})
}

func isNotFound(err error) bool {
	var copyrightNotFound *contracts.CopyrightNotFoundError
	var tokenNotFound *contracts.TokenNotFoundError
	var listingNotFound *contracts.ListingNotFoundError
	return errors.As(err, &copyrightNotFound) ||
		errors.As(err, &tokenNotFound) ||
		errors.As(err, &listingNotFound)
}
