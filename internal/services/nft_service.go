// internal/services/nft_service.go
package services

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// NFTService mints tokens against registered copyrights and keeps the token
// index in sync with on-chain ownership.
type NFTService struct {
	db       *gorm.DB
	chainSvc *ChainService
}

type MintRequest struct {
	CopyrightID uint64  `json:"copyright_id" validate:"required"`
	TokenURI    string  `json:"token_uri" validate:"required,max=512"`
	RoyaltyBps  *uint16 `json:"royalty_bps,omitempty"` // nil means contract default
}

type RoyaltyUpdateRequest struct {
	Receiver string `json:"receiver" validate:"required,eth_address"`
	Bps      uint16 `json:"bps" validate:"required"`
}

type ApproveRequest struct {
	Approved string `json:"approved" validate:"required"`
}

type TransferRequest struct {
	From string `json:"from" validate:"required,eth_address"`
	To   string `json:"to" validate:"required,eth_address"`
}

type TokenResponse struct {
	TokenID         uint64 `json:"token_id"`
	CopyrightID     uint64 `json:"copyright_id"`
	OwnerAddress    string `json:"owner_address"`
	TokenURI        string `json:"token_uri"`
	RoyaltyReceiver string `json:"royalty_receiver"`
	RoyaltyBps      uint16 `json:"royalty_bps"`
}

type RoyaltyQuoteResponse struct {
	TokenID      uint64 `json:"token_id"`
	SalePriceWei string `json:"sale_price_wei"`
	Receiver     string `json:"receiver"`
	RoyaltyWei   string `json:"royalty_wei"`
}

func NewNFTService(db *gorm.DB, chainSvc *ChainService) *NFTService {
	return &NFTService{
		db:       db,
		chainSvc: chainSvc,
	}
}

// Mint creates the one token a copyright can ever have. Only the copyright
// creator may call it; royalty defaults to the contract default when omitted.
func (s *NFTService) Mint(callerAddress string, req *MintRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	var tokenID uint64
	if req.RoyaltyBps != nil {
		tokenID, err = s.chainSvc.NFT().Mint(caller, req.CopyrightID, req.TokenURI, *req.RoyaltyBps)
	} else {
		tokenID, err = s.chainSvc.NFT().MintWithDefaultRoyalty(caller, req.CopyrightID, req.TokenURI)
	}
	if err != nil {
		return nil, err
	}

	resp, err := s.tokenFromChain(tokenID)
	if err != nil {
		return nil, err
	}

	row := &models.Token{
		TokenID:         resp.TokenID,
		CopyrightID:     resp.CopyrightID,
		CreatorAddress:  normalizeAddress(callerAddress),
		OwnerAddress:    normalizeAddress(resp.OwnerAddress),
		TokenURI:        resp.TokenURI,
		RoyaltyReceiver: normalizeAddress(resp.RoyaltyReceiver),
		RoyaltyBps:      resp.RoyaltyBps,
	}
	if err := s.db.Create(row).Error; err != nil {
		logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to index token")
	}

	return resp, nil
}

// Get reads a token from the chain.
func (s *NFTService) Get(tokenID uint64) (*TokenResponse, error) {
	return s.tokenFromChain(tokenID)
}

// GetByCopyright resolves a copyright to its token, if minted.
func (s *NFTService) GetByCopyright(copyrightID uint64) (*TokenResponse, error) {
	tokenID, ok := s.chainSvc.NFT().TokenByCopyright(copyrightID)
	if !ok {
		return nil, errors.New("no token minted for this copyright")
	}
	return s.tokenFromChain(tokenID)
}

// ListByOwner pages through the token index filtered by current owner.
func (s *NFTService) ListByOwner(ownerAddress string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	if _, err := utils.ParseAddress(ownerAddress); err != nil {
		return nil, fmt.Errorf("invalid owner address: %w", err)
	}

	query := s.db.Model(&models.Token{}).Where("owner_address = ?", normalizeAddress(ownerAddress))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	var rows []models.Token
	query = utils.ApplySort(query, params, []string{"created_at", "token_id"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

// RoyaltyQuote computes the EIP-2981 royalty for a hypothetical sale price.
func (s *NFTService) RoyaltyQuote(tokenID uint64, salePriceWei string) (*RoyaltyQuoteResponse, error) {
	price, err := utils.ParseWei(salePriceWei)
	if err != nil {
		return nil, err
	}

	receiver, amount, err := s.chainSvc.NFT().RoyaltyInfo(tokenID, price)
	if err != nil {
		return nil, err
	}

	return &RoyaltyQuoteResponse{
		TokenID:      tokenID,
		SalePriceWei: price.String(),
		Receiver:     receiver.Hex(),
		RoyaltyWei:   amount.String(),
	}, nil
}

// UpdateRoyalty changes a token's royalty pair. Only the copyright creator
// may call it, even after selling the token.
func (s *NFTService) UpdateRoyalty(callerAddress string, tokenID uint64, req *RoyaltyUpdateRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	receiver, err := utils.ParseAddress(req.Receiver)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver address: %w", err)
	}

	if err := s.chainSvc.NFT().UpdateRoyalty(caller, tokenID, receiver, req.Bps); err != nil {
		return nil, err
	}

	s.syncToken(tokenID)
	return s.tokenFromChain(tokenID)
}

// Approve grants one address transfer rights for a token. The zero address
// clears a previous approval.
func (s *NFTService) Approve(callerAddress string, tokenID uint64, req *ApproveRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	approved, err := utils.ParseAddress(req.Approved)
	if err != nil {
		return fmt.Errorf("invalid approved address: %w", err)
	}

	return s.chainSvc.NFT().Approve(caller, approved, tokenID)
}

// Transfer moves a token and re-indexes its owner.
func (s *NFTService) Transfer(callerAddress string, tokenID uint64, req *TransferRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	from, err := utils.ParseAddress(req.From)
	if err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	to, err := utils.ParseAddress(req.To)
	if err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}

	if err := s.chainSvc.NFT().TransferFrom(caller, from, to, tokenID); err != nil {
		return nil, err
	}

	s.syncToken(tokenID)
	return s.tokenFromChain(tokenID)
}

// BalanceOf returns how many tokens an address currently owns.
func (s *NFTService) BalanceOf(ownerAddress string) (uint64, error) {
	owner, err := utils.ParseAddress(ownerAddress)
	if err != nil {
		return 0, fmt.Errorf("invalid owner address: %w", err)
	}
	return s.chainSvc.NFT().BalanceOf(owner), nil
}

func (s *NFTService) tokenFromChain(tokenID uint64) (*TokenResponse, error) {
	owner, err := s.chainSvc.NFT().OwnerOf(tokenID)
	if err != nil {
		return nil, err
	}

	uri, err := s.chainSvc.NFT().TokenURI(tokenID)
	if err != nil {
		return nil, err
	}

	copyrightID, err := s.chainSvc.NFT().CopyrightByToken(tokenID)
	if err != nil {
		return nil, err
	}

	receiver, amount, err := s.chainSvc.NFT().RoyaltyInfo(tokenID, big.NewInt(10000))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		TokenID:         tokenID,
		CopyrightID:     copyrightID,
		OwnerAddress:    owner.Hex(),
		TokenURI:        uri,
		RoyaltyReceiver: receiver.Hex(),
		RoyaltyBps:      uint16(amount.Uint64()),
	}, nil
}

// syncToken refreshes the index row for a token after an on-chain change.
// Index drift is logged, never surfaced: the chain already moved on.
func (s *NFTService) syncToken(tokenID uint64) {
	resp, err := s.tokenFromChain(tokenID)
	if err != nil {
		logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to read token for index sync")
		return
	}

	updates := map[string]interface{}{
		"owner_address":    normalizeAddress(resp.OwnerAddress),
		"royalty_receiver": normalizeAddress(resp.RoyaltyReceiver),
		"royalty_bps":      resp.RoyaltyBps,
	}
	if err := s.db.Model(&models.Token{}).Where("token_id = ?", tokenID).Updates(updates).Error; err != nil {
		logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to sync token index")
	}
}
