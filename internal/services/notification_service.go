// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// NotificationService writes in-app notifications. Wallet users have no
// verified email, so everything is delivered through the API.
type NotificationService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{
		db:  db,
		cfg: cfg,
	}
}

// NotifySale fans a completed sale out to the seller and, when royalties
// were paid to someone else, the royalty receiver.
func (s *NotificationService) NotifySale(sale *models.Sale) error {
	listingID := sale.ListingID

	sellerNote := &models.Notification{
		RecipientAddress: sale.SellerAddress,
		Type:             models.NotificationTypeSale,
		Title:            "Your NFT sold",
		Message: fmt.Sprintf("Token #%d sold for %s wei. You received %s wei after fees.",
			sale.TokenID, sale.PriceWei, sale.ProceedsWei),
		Status:           models.NotificationStatusUnread,
		RelatedListingID: &listingID,
	}
	if err := s.db.Create(sellerNote).Error; err != nil {
		return fmt.Errorf("failed to create seller notification: %w", err)
	}

	if sale.RoyaltyReceiver != "" && sale.RoyaltyReceiver != sale.SellerAddress {
		royaltyNote := &models.Notification{
			RecipientAddress: sale.RoyaltyReceiver,
			Type:             models.NotificationTypeRoyalty,
			Title:            "Royalty received",
			Message: fmt.Sprintf("Token #%d resold for %s wei. Your royalty is %s wei.",
				sale.TokenID, sale.PriceWei, sale.RoyaltyWei),
			Status:           models.NotificationStatusUnread,
			RelatedListingID: &listingID,
		}
		if err := s.db.Create(royaltyNote).Error; err != nil {
			return fmt.Errorf("failed to create royalty notification: %w", err)
		}
	}

	return nil
}

// NotifyListing tells a creator their work was listed by its current owner.
func (s *NotificationService) NotifyListing(recipientAddress string, listingID uint64, tokenID uint64, priceWei string) error {
	note := &models.Notification{
		RecipientAddress: normalizeAddress(recipientAddress),
		Type:             models.NotificationTypeListing,
		Title:            "NFT listed",
		Message:          fmt.Sprintf("Token #%d was listed for %s wei.", tokenID, priceWei),
		Status:           models.NotificationStatusUnread,
		RelatedListingID: &listingID,
	}
	if err := s.db.Create(note).Error; err != nil {
		return fmt.Errorf("failed to create listing notification: %w", err)
	}
	return nil
}

// List pages through an address's notifications, newest first.
func (s *NotificationService) List(address string, unreadOnly bool, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Notification{}).
		Where("recipient_address = ?", normalizeAddress(address))
	if unreadOnly {
		query = query.Where("status = ?", models.NotificationStatusUnread)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	var rows []models.Notification
	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

// MarkRead marks one notification read. Only the recipient may do so.
func (s *NotificationService) MarkRead(address string, id string) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_address = ?", id, normalizeAddress(address)).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

// UnreadCount returns the number of unread notifications for an address.
func (s *NotificationService) UnreadCount(address string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_address = ? AND status = ?", normalizeAddress(address), models.NotificationStatusUnread).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
