package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localstay-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultGuestCap applies when a stay has no per-stay MaxGuests configured.
const DefaultGuestCap = 16

// Booking actions a host may take on a REQUESTED booking.
const (
	BookingActionAccept = "accept"
	BookingActionReject = "reject"
)

// BookingEngine drives the REQUESTED -> ACCEPTED/REJECTED state machine.
// Requesting only pre-checks against ACCEPTED holds (competing REQUESTED
// holds are allowed to pile up so the host can choose among them); the
// authoritative conflict check happens again at accept time, inside a
// per-stay serialized transaction.
type BookingEngine struct {
	db *gorm.DB
}

func NewBookingEngine(db *gorm.DB) *BookingEngine {
	return &BookingEngine{db: db}
}

type BookingRequestInput struct {
	StayID   uint
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// Request files a new booking in REQUESTED state.
func (e *BookingEngine) Request(ctx context.Context, actor Actor, input BookingRequestInput) (*models.Booking, error) {
	if !CanPerform(actor, ActionRequestBooking, 0) {
		return nil, permissionDenied("only travelers can request bookings")
	}

	if !input.CheckIn.Before(input.CheckOut) {
		return nil, validationError("check-out must be after check-in")
	}
	today := truncateToDay(time.Now().UTC())
	if input.CheckIn.Before(today) {
		return nil, validationError("check-in cannot be in the past")
	}
	if input.Guests < 1 {
		return nil, validationError("guests must be at least 1")
	}

	var stay models.Stay
	if err := e.db.Preload("Host").First(&stay, input.StayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stay not found")
		}
		return nil, err
	}

	// Stays of banned or unverified hosts are not bookable; behave as if
	// the listing does not exist, matching the public feed.
	if stay.Host == nil || !stay.Host.IsVerifiedHost() {
		return nil, notFound("stay not found")
	}

	guestCap := stay.MaxGuests
	if guestCap <= 0 {
		guestCap = DefaultGuestCap
	}
	if input.Guests > guestCap {
		return nil, validationError(fmt.Sprintf("guests cannot exceed %d for this stay", guestCap))
	}

	// Pre-check convenience only: a conflicting accept may still land
	// between now and this request's own accept.
	index := NewAvailabilityIndex(e.db)
	conflicting, err := index.HasConflict(input.StayID, input.CheckIn, input.CheckOut, []string{models.BookingAccepted}, 0)
	if err != nil {
		return nil, err
	}
	if conflicting {
		return nil, conflict("dates are already booked, please choose different dates")
	}

	booking := models.Booking{
		StayID:     input.StayID,
		TravelerID: actor.ID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Guests:     input.Guests,
		Status:     models.BookingRequested,
	}
	booking.TotalPrice = booking.Nights() * stay.PricePerNight

	// The booking and the host's notification land together or not at all.
	txErr := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID:  stay.HostID,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("New request for %s from %s to %s", stay.Name, input.CheckIn.Format(models.DateLayout), input.CheckOut.Format(models.DateLayout)),
			Type:    "booking_request",
			RefID:   booking.ID,
			RefType: "booking",
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	e.db.Preload("Stay").Preload("Traveler").First(&booking, booking.ID)
	return &booking, nil
}

// Act applies a host decision to a REQUESTED booking. Accepting re-validates
// availability and auto-rejects every other REQUESTED booking on the same
// stay whose range overlaps; the whole sequence commits or rolls back as a
// unit. The stay row is locked for the duration, so two accepts, or an
// accept racing a stay delete, never interleave.
func (e *BookingEngine) Act(ctx context.Context, actor Actor, bookingID uint, action string) (*models.Booking, error) {
	if action != BookingActionAccept && action != BookingActionReject {
		return nil, validationError("action must be accept or reject")
	}

	ctx, cancel := context.WithTimeout(ctx, engineTimeout)
	defer cancel()

	var booking models.Booking
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("booking not found")
			}
			return err
		}

		var stay models.Stay
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stay, booking.StayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("stay not found")
			}
			return err
		}

		// The first read ran before the stay lock was held; a competing
		// decision may have committed while this one waited on the lock.
		// Every check below runs against the row as it is under the lock.
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("booking not found")
			}
			return err
		}

		if !CanPerform(actor, ActionActOnBooking, stay.HostID) {
			return permissionDenied("you do not own this stay")
		}

		if booking.Terminal() {
			return invalidState(fmt.Sprintf("booking is already %s", booking.Status))
		}

		if action == BookingActionReject {
			booking.Status = models.BookingRejected
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}
			return e.notifyOutcome(tx, &booking, &stay)
		}

		// Another overlapping request may have been accepted since this one
		// was filed; the accept-time check is the authoritative one.
		index := NewAvailabilityIndex(tx)
		conflicting, err := index.HasConflict(booking.StayID, booking.CheckIn, booking.CheckOut, []string{models.BookingAccepted}, booking.ID)
		if err != nil {
			return err
		}
		if conflicting {
			return conflict("dates are already booked, cannot accept")
		}

		booking.Status = models.BookingAccepted
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		// Competing REQUESTED holds on the accepted window can no longer be
		// honored; reject them in the same transaction.
		siblings, err := index.overlappingRequested(booking.StayID, booking.CheckIn, booking.CheckOut, booking.ID)
		if err != nil {
			return err
		}
		for i := range siblings {
			siblings[i].Status = models.BookingRejected
			if err := tx.Save(&siblings[i]).Error; err != nil {
				return err
			}
			if err := e.notifyOutcome(tx, &siblings[i], &stay); err != nil {
				return err
			}
		}

		return e.notifyOutcome(tx, &booking, &stay)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	e.db.Preload("Stay").Preload("Traveler").First(&booking, booking.ID)
	return &booking, nil
}

// ListForTraveler returns the actor's own booking requests, newest stay
// dates first.
func (e *BookingEngine) ListForTraveler(actor Actor) ([]models.Booking, error) {
	if !CanPerform(actor, ActionViewBookings, 0) {
		return nil, permissionDenied("not allowed to view bookings")
	}
	var bookings []models.Booking
	err := e.db.Preload("Stay").
		Where("traveler_id = ?", actor.ID).
		Order("check_in DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListForHost returns every booking against the actor's stays, joined with
// the requesting traveler's contact fields for the owner dashboard.
func (e *BookingEngine) ListForHost(actor Actor) ([]models.Booking, error) {
	if actor.Role != models.RoleHost {
		return nil, permissionDenied("not a host account")
	}
	var bookings []models.Booking
	err := e.db.
		Joins("JOIN stays ON stays.id = bookings.stay_id").
		Where("stays.host_id = ?", actor.ID).
		Preload("Stay").
		Preload("Traveler").
		Order("bookings.id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (e *BookingEngine) notifyOutcome(tx *gorm.DB, booking *models.Booking, stay *models.Stay) error {
	return tx.Create(&models.Notification{
		UserID:  booking.TravelerID,
		Title:   "Booking Status Updated",
		Message: fmt.Sprintf("Your booking for %s has been %s", stay.Name, booking.Status),
		Type:    "booking_status",
		RefID:   booking.ID,
		RefType: "booking",
	}).Error
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
