// internal/services/account_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// AccountService manages wallet account profiles. Identity lives on chain;
// this is display metadata only.
type AccountService struct {
	db       *gorm.DB
	chainSvc *ChainService
}

type UpdateProfileRequest struct {
	DisplayName string                 `json:"display_name,omitempty" validate:"max=100"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

type AccountSummary struct {
	Account       *models.Account `json:"account"`
	BalanceWei    string          `json:"balance_wei"`
	Registrations uint64          `json:"registrations"`
	TokensOwned   uint64          `json:"tokens_owned"`
}

func NewAccountService(db *gorm.DB, chainSvc *ChainService) *AccountService {
	return &AccountService{
		db:       db,
		chainSvc: chainSvc,
	}
}

// Get returns an account with its on-chain balance and activity counts.
func (s *AccountService) Get(address string) (*AccountSummary, error) {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	var account models.Account
	if err := s.db.Where("address = ?", normalizeAddress(address)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &AccountSummary{
		Account:       &account,
		BalanceWei:    s.chainSvc.BalanceOf(addr).String(),
		Registrations: s.chainSvc.Registry().CreatorRegistrationCount(addr),
		TokensOwned:   s.chainSvc.NFT().BalanceOf(addr),
	}, nil
}

// UpdateProfile updates the caller's own display metadata.
func (s *AccountService) UpdateProfile(address string, req *UpdateProfileRequest) (*models.Account, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var account models.Account
	if err := s.db.Where("address = ?", normalizeAddress(address)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.DisplayName != "" {
		account.DisplayName = req.DisplayName
	}
	if req.ProfileData != nil {
		account.ProfileData = models.JSONB(req.ProfileData)
	}

	if err := s.db.Save(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &account, nil
}
