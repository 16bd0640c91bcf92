// internal/models/notification.go
package models

import "time"

type Notification struct {
	BaseModel
	RecipientAddress string             `json:"recipient_address" gorm:"size:42;not null;index"`
	Type             NotificationType   `json:"type" gorm:"size:20;not null"`
	Title            string             `json:"title" gorm:"size:255;not null"`
	Message          string             `json:"message" gorm:"type:text"`
	Status           NotificationStatus `json:"status" gorm:"size:20;not null;default:'unread'"`
	RelatedListingID *uint64            `json:"related_listing_id,omitempty"`
	ReadAt           *time.Time         `json:"read_at,omitempty"`
}
