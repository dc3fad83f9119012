package models

import (
	"gorm.io/gorm"
)

// Roles are fixed at signup and never change afterwards.
const (
	RoleTraveler = "traveler"
	RoleHost     = "host"
	RoleAdmin    = "admin"
)

// Verification statuses apply to hosts only. A host starts unverified,
// an admin promotes them to verified, and toggle-status flips between
// verified and banned.
const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
	VerificationBanned     = "banned"
)

type User struct {
	gorm.Model
	Name               string `json:"name"`
	Email              string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber        string `json:"phone_number"`
	Password           string `json:"-"`
	Role               string `json:"role" gorm:"type:varchar(20);index"`
	VerificationStatus string `json:"verification_status" gorm:"type:varchar(20);default:'unverified';index"`

	Stays []Stay `json:"stays,omitempty" gorm:"foreignKey:HostID;references:ID"`
}

// IsVerifiedHost reports whether the user may list stays and take bookings.
func (u *User) IsVerifiedHost() bool {
	return u.Role == RoleHost && u.VerificationStatus == VerificationVerified
}
