package models

import (
	"time"
)

// AuditLog records admin actions against hosts (verify, ban, unban) and
// admin stay deletions.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminUserID  uint      `json:"admin_user_id" gorm:"index;not null"`
	Action       string    `json:"action" gorm:"size:64;index"`
	ResourceType string    `json:"resource_type" gorm:"size:64;index"`
	ResourceID   uint      `json:"resource_id" gorm:"index"`
	BeforeJSON   string    `json:"before_json" gorm:"type:text"`
	AfterJSON    string    `json:"after_json" gorm:"type:text"`
	IPAddress    string    `json:"ip_address" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}
