// internal/models/audit.go
package models

// AuditLog captures state-changing API calls. ActorAddress is empty for
// unauthenticated requests.
type AuditLog struct {
	BaseModel
	ActorAddress string `json:"actor_address" gorm:"size:42;index"`
	Action       string `json:"action" gorm:"size:100;not null"`
	Resource     string `json:"resource" gorm:"size:100;not null"`
	ResourceID   string `json:"resource_id" gorm:"size:100"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"size:512"`
	Details      JSONB  `json:"details" gorm:"type:jsonb"`
}
