// internal/models/account.go
package models

import "time"

// Account is a wallet-backed identity. There are no passwords: ownership of
// the address is proven by signing a login nonce, so the only secret the
// platform ever holds is the short-lived nonce itself.
type Account struct {
	BaseModel
	Address     string     `json:"address" gorm:"uniqueIndex;size:42;not null"`
	DisplayName string     `json:"display_name" gorm:"size:100"`
	LoginNonce  string     `json:"-" gorm:"size:64"`
	IsAdmin     bool       `json:"is_admin" gorm:"default:false"`
	ProfileData JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt *time.Time `json:"last_login_at"`
}
