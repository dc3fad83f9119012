package models

import (
	"gorm.io/gorm"
)

// Notification is an in-app record of a booking event: a new request for a
// host, or an accept/reject outcome for a traveler. Delivery channels
// (email, push) are out of scope; dashboards read these directly.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"index"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // booking_request, booking_status
	RefID   uint   `json:"ref_id"`
	RefType string `json:"ref_type"` // booking
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
