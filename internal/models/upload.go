// internal/models/upload.go
package models

// AssetUpload tracks a file stored in S3 together with the sha-256 content
// hash computed server-side. The hash is what gets registered on chain, so
// keeping the pair lets clients prove which upload backs a registration.
type AssetUpload struct {
	BaseModel
	UploaderAddress string `json:"uploader_address" gorm:"size:42;not null;index"`
	Key             string `json:"key" gorm:"size:512;not null"`
	URL             string `json:"url" gorm:"size:1024;not null"`
	Filename        string `json:"filename" gorm:"size:255"`
	MimeType        string `json:"mime_type" gorm:"size:100"`
	Size            int64  `json:"size"`
	ContentHash     string `json:"content_hash" gorm:"size:66;not null;index"`
}
