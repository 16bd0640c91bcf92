// internal/services/marketplace_service.go
package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// MarketplaceService drives the listing lifecycle and mirrors listings and
// completed sales into the index. Settlement itself happens entirely inside
// the marketplace contract.
type MarketplaceService struct {
	db              *gorm.DB
	chainSvc        *ChainService
	notificationSvc *NotificationService
}

type ListNFTRequest struct {
	TokenID  uint64 `json:"token_id" validate:"required"`
	PriceWei string `json:"price_wei" validate:"required,wei"`
}

type BuyNFTRequest struct {
	ValueWei string `json:"value_wei" validate:"required,wei"`
}

type UpdatePriceRequest struct {
	PriceWei string `json:"price_wei" validate:"required,wei"`
}

type UpdateFeeRecipientRequest struct {
	Recipient string `json:"recipient" validate:"required,eth_address"`
}

type ListingResponse struct {
	ListingID     uint64 `json:"listing_id"`
	NFTContract   string `json:"nft_contract"`
	TokenID       uint64 `json:"token_id"`
	SellerAddress string `json:"seller_address"`
	PriceWei      string `json:"price_wei"`
	Active        bool   `json:"active"`
}

type SaleResponse struct {
	ListingID       uint64 `json:"listing_id"`
	TokenID         uint64 `json:"token_id"`
	SellerAddress   string `json:"seller_address"`
	BuyerAddress    string `json:"buyer_address"`
	PriceWei        string `json:"price_wei"`
	PlatformFeeWei  string `json:"platform_fee_wei"`
	RoyaltyWei      string `json:"royalty_wei"`
	ProceedsWei     string `json:"proceeds_wei"`
	RoyaltyReceiver string `json:"royalty_receiver"`
}

func NewMarketplaceService(db *gorm.DB, chainSvc *ChainService, notificationSvc *NotificationService) *MarketplaceService {
	return &MarketplaceService{
		db:              db,
		chainSvc:        chainSvc,
		notificationSvc: notificationSvc,
	}
}

// List puts a token up for sale at a fixed wei price. The seller must have
// approved the marketplace for the token first.
func (s *MarketplaceService) List(callerAddress string, req *ListNFTRequest) (*ListingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	price, err := utils.ParseWei(req.PriceWei)
	if err != nil {
		return nil, err
	}

	nftContract := s.chainSvc.NFT().Address()
	listingID, err := s.chainSvc.Marketplace().ListNFT(caller, nftContract, req.TokenID, price)
	if err != nil {
		return nil, err
	}

	row := &models.Listing{
		ListingID:     listingID,
		NFTContract:   normalizeAddress(nftContract.Hex()),
		TokenID:       req.TokenID,
		SellerAddress: normalizeAddress(callerAddress),
		PriceWei:      price.String(),
		Status:        models.ListingStatusActive,
		ListedAt:      time.Now(),
	}
	if err := s.db.Create(row).Error; err != nil {
		logrus.WithError(err).WithField("listing_id", listingID).Error("Failed to index listing")
	}

	return s.listingFromChain(listingID)
}

// Buy settles a purchase. The buyer's sent value must cover the price; any
// excess stays with the buyer. On success the token, the payment split, and
// both parties' notifications are all handled here.
func (s *MarketplaceService) Buy(buyerAddress string, listingID uint64, req *BuyNFTRequest) (*SaleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	buyer, err := utils.ParseAddress(buyerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid buyer address: %w", err)
	}

	value, err := utils.ParseWei(req.ValueWei)
	if err != nil {
		return nil, err
	}

	// Remember where the log ends so the settlement breakdown can be read
	// back from the NFTSold event this purchase emits.
	logMark := len(s.chainSvc.Logs())

	if err := s.chainSvc.Marketplace().BuyNFT(buyer, listingID, value); err != nil {
		return nil, err
	}

	sold, ok := s.soldEventSince(logMark, listingID)
	if !ok {
		return nil, fmt.Errorf("purchase succeeded but no sale event found for listing %d", listingID)
	}

	royaltyReceiver := ""
	if sold.RoyaltyAmount.Sign() > 0 {
		if receiver, _, err := s.chainSvc.NFT().RoyaltyInfo(sold.TokenID, sold.Price); err == nil {
			royaltyReceiver = normalizeAddress(receiver.Hex())
		}
	}

	sale := &models.Sale{
		ListingID:       sold.ListingID,
		TokenID:         sold.TokenID,
		SellerAddress:   normalizeAddress(sold.Seller.Hex()),
		BuyerAddress:    normalizeAddress(sold.Buyer.Hex()),
		PriceWei:        sold.Price.String(),
		PlatformFeeWei:  sold.PlatformFee.String(),
		RoyaltyWei:      sold.RoyaltyAmount.String(),
		ProceedsWei:     sold.SellerProceeds.String(),
		RoyaltyReceiver: royaltyReceiver,
		SoldAt:          time.Now(),
	}
	if err := s.db.Create(sale).Error; err != nil {
		logrus.WithError(err).WithField("listing_id", listingID).Error("Failed to record sale")
	}

	s.db.Model(&models.Listing{}).Where("listing_id = ?", listingID).
		Update("status", models.ListingStatusSold)
	s.db.Model(&models.Token{}).Where("token_id = ?", sold.TokenID).
		Update("owner_address", normalizeAddress(sold.Buyer.Hex()))

	// Notify seller and royalty receiver asynchronously
	go s.notifySale(sale)

	return saleResponse(sale), nil
}

// Cancel deactivates a listing. Only the seller may cancel.
func (s *MarketplaceService) Cancel(callerAddress string, listingID uint64) error {
	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	if err := s.chainSvc.Marketplace().CancelListing(caller, listingID); err != nil {
		return err
	}

	s.db.Model(&models.Listing{}).Where("listing_id = ?", listingID).
		Update("status", models.ListingStatusCancelled)
	return nil
}

// UpdatePrice changes an active listing's price. Only the seller may call.
func (s *MarketplaceService) UpdatePrice(callerAddress string, listingID uint64, req *UpdatePriceRequest) (*ListingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	price, err := utils.ParseWei(req.PriceWei)
	if err != nil {
		return nil, err
	}

	if err := s.chainSvc.Marketplace().UpdateListingPrice(caller, listingID, price); err != nil {
		return nil, err
	}

	s.db.Model(&models.Listing{}).Where("listing_id = ?", listingID).
		Update("price_wei", price.String())
	return s.listingFromChain(listingID)
}

// UpdateFeeRecipient rotates the platform fee recipient. Marketplace owner
// only.
func (s *MarketplaceService) UpdateFeeRecipient(callerAddress string, req *UpdateFeeRecipientRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	recipient, err := utils.ParseAddress(req.Recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	return s.chainSvc.Marketplace().UpdatePlatformFeeRecipient(caller, recipient)
}

// Get reads one listing from the chain.
func (s *MarketplaceService) Get(listingID uint64) (*ListingResponse, error) {
	return s.listingFromChain(listingID)
}

// Search pages through the listing index, defaulting to active listings.
func (s *MarketplaceService) Search(status models.ListingStatus, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Listing{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var rows []models.Listing
	query = utils.ApplySort(query, params, []string{"created_at", "listed_at", "listing_id"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

// Sales pages through completed sales, optionally filtered by address on
// either side of the trade.
func (s *MarketplaceService) Sales(address string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Sale{})
	if address != "" {
		if _, err := utils.ParseAddress(address); err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}
		addr := normalizeAddress(address)
		query = query.Where("seller_address = ? OR buyer_address = ?", addr, addr)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var rows []models.Sale
	query = utils.ApplySort(query, params, []string{"created_at", "sold_at", "listing_id"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

func (s *MarketplaceService) listingFromChain(listingID uint64) (*ListingResponse, error) {
	listing, err := s.chainSvc.Marketplace().GetListing(listingID)
	if err != nil {
		return nil, err
	}
	return &ListingResponse{
		ListingID:     listing.ID,
		NFTContract:   listing.NFTContract.Hex(),
		TokenID:       listing.TokenID,
		SellerAddress: listing.Seller.Hex(),
		PriceWei:      listing.Price.String(),
		Active:        listing.Active,
	}, nil
}

func (s *MarketplaceService) soldEventSince(logMark int, listingID uint64) (contracts.NFTSold, bool) {
	for _, log := range s.chainSvc.LogsSince(logMark) {
		if sold, ok := log.Event.(contracts.NFTSold); ok && sold.ListingID == listingID {
			return sold, true
		}
	}
	return contracts.NFTSold{}, false
}

func (s *MarketplaceService) notifySale(sale *models.Sale) {
	if s.notificationSvc == nil {
		return
	}

	if err := s.notificationSvc.NotifySale(sale); err != nil {
		logrus.WithError(err).WithField("listing_id", sale.ListingID).Error("Failed to send sale notifications")
	}
}

func saleResponse(sale *models.Sale) *SaleResponse {
	return &SaleResponse{
		ListingID:       sale.ListingID,
		TokenID:         sale.TokenID,
		SellerAddress:   sale.SellerAddress,
		BuyerAddress:    sale.BuyerAddress,
		PriceWei:        sale.PriceWei,
		PlatformFeeWei:  sale.PlatformFeeWei,
		RoyaltyWei:      sale.RoyaltyWei,
		ProceedsWei:     sale.ProceedsWei,
		RoyaltyReceiver: sale.RoyaltyReceiver,
	}
}
