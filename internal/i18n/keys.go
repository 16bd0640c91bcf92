// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired         = "auth.required"
	KeyAuthInvalidToken     = "auth.invalid_token"
	KeyAuthTokenExpired     = "auth.token_expired"
	KeyAuthInvalidSignature = "auth.invalid_signature"
	KeyAuthNonceIssued      = "auth.nonce_issued"
	KeyAuthLoginSuccess     = "auth.login_success"
	KeyAuthLogoutSuccess    = "auth.logout_success"

	// Accounts
	KeyAccountNotFound       = "account.not_found"
	KeyAccountProfileUpdated = "account.profile_updated"

	// Copyrights
	KeyCopyrightRegistered        = "copyright.registered"
	KeyCopyrightNotFound          = "copyright.not_found"
	KeyCopyrightDuplicateContent  = "copyright.duplicate_content"
	KeyCopyrightInvalidAssetType  = "copyright.invalid_asset_type"
	KeyCopyrightAlreadyRegistered = "copyright.already_registered"

	// NFTs
	KeyNFTMinted        = "nft.minted"
	KeyNFTNotFound      = "nft.not_found"
	KeyNFTNotCreator    = "nft.not_creator"
	KeyNFTAlreadyMinted = "nft.already_minted"
	KeyNFTRoyaltyRange  = "nft.royalty_out_of_range"

	// Marketplace
	KeyListingCreated      = "listing.created"
	KeyListingNotFound     = "listing.not_found"
	KeyListingNotActive    = "listing.not_active"
	KeyListingCancelled    = "listing.cancelled"
	KeyListingPriceUpdated = "listing.price_updated"
	KeyPurchaseSuccess     = "purchase.success"
	KeyPurchaseUnderpaid   = "purchase.underpaid"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Notifications
	KeyNotificationSent   = "notification.sent"
	KeyNotificationFailed = "notification.failed"
)
