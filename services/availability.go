package services

import (
	"time"

	"localstay-server/models"

	"gorm.io/gorm"
)

// AvailabilityIndex answers whether a [checkIn, checkOut) range on a stay is
// free of conflicting holds. Ranges are half-open: a checkout on the same
// day as another booking's check-in does not conflict, which allows
// same-day turnover.
type AvailabilityIndex struct {
	db *gorm.DB
}

func NewAvailabilityIndex(db *gorm.DB) *AvailabilityIndex {
	return &AvailabilityIndex{db: db}
}

// HasConflict reports whether any booking on the stay with one of the given
// statuses overlaps the range. Two ranges [a1,b1) and [a2,b2) overlap iff
// a1 < b2 && a2 < b1. excludeBookingID skips the booking being acted on
// itself (0 to skip nothing).
func (a *AvailabilityIndex) HasConflict(stayID uint, checkIn, checkOut time.Time, statuses []string, excludeBookingID uint) (bool, error) {
	var count int64
	query := a.db.Model(&models.Booking{}).
		Where("stay_id = ?", stayID).
		Where("status IN ?", statuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		query = query.Where("id != ?", excludeBookingID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// overlappingRequested returns the REQUESTED bookings on the stay whose
// ranges overlap [checkIn, checkOut), excluding the given booking. These
// are the siblings that can no longer be honored once a competing request
// is accepted.
func (a *AvailabilityIndex) overlappingRequested(stayID uint, checkIn, checkOut time.Time, excludeBookingID uint) ([]models.Booking, error) {
	var siblings []models.Booking
	err := a.db.
		Where("stay_id = ?", stayID).
		Where("id != ?", excludeBookingID).
		Where("status = ?", models.BookingRequested).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Find(&siblings).Error
	return siblings, err
}
