// internal/models/registration.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Registration mirrors an on-chain copyright registration for querying. The
// chain is authoritative; rows here are an index and are never edited after
// being written.
type Registration struct {
	BaseModel
	ChainID        uint64         `json:"chain_id" gorm:"uniqueIndex;not null"`
	CreatorAddress string         `json:"creator_address" gorm:"size:42;not null;index"`
	ContentHash    string         `json:"content_hash" gorm:"size:66;uniqueIndex;not null"`
	IPFSCID        string         `json:"ipfs_cid" gorm:"size:255"`
	Title          string         `json:"title" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	AssetType      string         `json:"asset_type" gorm:"size:20;index"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	RegisteredAt   time.Time      `json:"registered_at"`
}

// Token mirrors a minted KaryaNFT token. OwnerAddress tracks transfers;
// everything else is fixed at mint except the royalty pair, which the
// copyright creator may update.
type Token struct {
	BaseModel
	TokenID         uint64 `json:"token_id" gorm:"uniqueIndex;not null"`
	CopyrightID     uint64 `json:"copyright_id" gorm:"uniqueIndex;not null"`
	CreatorAddress  string `json:"creator_address" gorm:"size:42;not null;index"`
	OwnerAddress    string `json:"owner_address" gorm:"size:42;not null;index"`
	TokenURI        string `json:"token_uri" gorm:"size:512;not null"`
	RoyaltyReceiver string `json:"royalty_receiver" gorm:"size:42;not null"`
	RoyaltyBps      uint16 `json:"royalty_bps" gorm:"not null"`
}
