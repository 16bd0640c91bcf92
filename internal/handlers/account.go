// internal/handlers/account.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/i18n"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/services"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

type AccountHandler struct {
	accountService *services.AccountService
	chainService   *services.ChainService
}

func NewAccountHandler(accountService *services.AccountService, chainService *services.ChainService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		chainService:   chainService,
	}
}

// GET /accounts/:address
func (h *AccountHandler) Get(c *gin.Context) {
	summary, err := h.accountService.Get(c.Param("address"))
	if err != nil {
		utils.NotFoundResponse(c, "account")
		return
	}

	utils.SuccessResponse(c, summary)
}

// GET /accounts/:address/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	address := c.Param("address")
	addr, err := utils.ParseAddress(address)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid address", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"address":     addr.Hex(),
		"balance_wei": h.chainService.BalanceOf(addr).String(),
	})
}

// PUT /accounts/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	account, err := h.accountService.UpdateProfile(address, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAccountProfileUpdated),
		"account": account,
	})
}

// POST /accounts/faucet
func (h *AccountHandler) Faucet(c *gin.Context) {
	address, exists := utils.GetAddressFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	addr, err := utils.ParseAddress(address)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid address", nil)
		return
	}

	balance, err := h.chainService.Faucet(addr)
	if err != nil {
		if errors.Is(err, services.ErrFaucetDisabled) {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"address":     addr.Hex(),
		"balance_wei": balance.String(),
	})
}
