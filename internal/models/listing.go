// internal/models/listing.go
package models

import "time"

// Listing mirrors a marketplace listing. Prices are wei and stored as
// numeric(78,0) so a full uint256 fits without loss.
type Listing struct {
	BaseModel
	ListingID     uint64        `json:"listing_id" gorm:"uniqueIndex;not null"`
	NFTContract   string        `json:"nft_contract" gorm:"size:42;not null"`
	TokenID       uint64        `json:"token_id" gorm:"not null;index"`
	SellerAddress string        `json:"seller_address" gorm:"size:42;not null;index"`
	PriceWei      string        `json:"price_wei" gorm:"type:numeric(78,0);not null"`
	Status        ListingStatus `json:"status" gorm:"size:20;not null;index;default:'active'"`
	ListedAt      time.Time     `json:"listed_at"`
}

// Sale records a completed purchase with the full settlement breakdown, one
// row per NFTSold event.
type Sale struct {
	BaseModel
	ListingID       uint64    `json:"listing_id" gorm:"uniqueIndex;not null"`
	TokenID         uint64    `json:"token_id" gorm:"not null;index"`
	SellerAddress   string    `json:"seller_address" gorm:"size:42;not null;index"`
	BuyerAddress    string    `json:"buyer_address" gorm:"size:42;not null;index"`
	PriceWei        string    `json:"price_wei" gorm:"type:numeric(78,0);not null"`
	PlatformFeeWei  string    `json:"platform_fee_wei" gorm:"type:numeric(78,0);not null"`
	RoyaltyWei      string    `json:"royalty_wei" gorm:"type:numeric(78,0);not null"`
	ProceedsWei     string    `json:"proceeds_wei" gorm:"type:numeric(78,0);not null"`
	RoyaltyReceiver string    `json:"royalty_receiver" gorm:"size:42"`
	SoldAt          time.Time `json:"sold_at"`
}
