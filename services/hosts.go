package services

import (
	"errors"

	"localstay-server/models"

	"gorm.io/gorm"
)

// HostService is the admin-controlled verification gate. Verified hosts may
// list stays and take bookings; banned hosts keep their records but their
// stays drop out of the public feed and become unbookable. Existing
// ACCEPTED bookings are never touched by a ban.
type HostService struct {
	db *gorm.DB
}

func NewHostService(db *gorm.DB) *HostService {
	return &HostService{db: db}
}

// Verify marks a host verified. Idempotent: verifying an already-verified
// host is a no-op.
func (h *HostService) Verify(actor Actor, hostID uint) (*models.User, error) {
	host, err := h.loadHost(actor, hostID)
	if err != nil {
		return nil, err
	}

	if host.VerificationStatus != models.VerificationVerified {
		host.VerificationStatus = models.VerificationVerified
		if err := h.db.Save(host).Error; err != nil {
			return nil, err
		}
	}
	return host, nil
}

// ToggleStatus flips a host between verified and banned. An unverified host
// toggles to verified first (matching the admin dashboard's single toggle).
func (h *HostService) ToggleStatus(actor Actor, hostID uint) (*models.User, error) {
	host, err := h.loadHost(actor, hostID)
	if err != nil {
		return nil, err
	}

	if host.VerificationStatus == models.VerificationVerified {
		host.VerificationStatus = models.VerificationBanned
	} else {
		host.VerificationStatus = models.VerificationVerified
	}
	if err := h.db.Save(host).Error; err != nil {
		return nil, err
	}
	return host, nil
}

// ListUnverified returns hosts still waiting for verification.
func (h *HostService) ListUnverified(actor Actor) ([]models.User, error) {
	if !CanPerform(actor, ActionManageHosts, 0) {
		return nil, permissionDenied("admin access required")
	}
	var hosts []models.User
	err := h.db.
		Where("role = ? AND verification_status = ?", models.RoleHost, models.VerificationUnverified).
		Order("id").
		Find(&hosts).Error
	return hosts, err
}

// ListHosts returns every host account regardless of status.
func (h *HostService) ListHosts(actor Actor) ([]models.User, error) {
	if !CanPerform(actor, ActionManageHosts, 0) {
		return nil, permissionDenied("admin access required")
	}
	var hosts []models.User
	err := h.db.Where("role = ?", models.RoleHost).Order("id").Find(&hosts).Error
	return hosts, err
}

// ListTravelers returns every traveler account.
func (h *HostService) ListTravelers(actor Actor) ([]models.User, error) {
	if !CanPerform(actor, ActionManageHosts, 0) {
		return nil, permissionDenied("admin access required")
	}
	var travelers []models.User
	err := h.db.Where("role = ?", models.RoleTraveler).Order("id").Find(&travelers).Error
	return travelers, err
}

func (h *HostService) loadHost(actor Actor, hostID uint) (*models.User, error) {
	if !CanPerform(actor, ActionManageHosts, 0) {
		return nil, permissionDenied("admin access required")
	}

	var host models.User
	if err := h.db.First(&host, hostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("owner not found")
		}
		return nil, err
	}
	if host.Role != models.RoleHost {
		return nil, notFound("owner not found")
	}
	return &host, nil
}
