package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Booking statuses. ACCEPTED and REJECTED are terminal.
const (
	BookingRequested = "REQUESTED"
	BookingAccepted  = "ACCEPTED"
	BookingRejected  = "REJECTED"
)

// DateLayout is the wire format for check-in/check-out dates. Bookings
// carry calendar dates only; the 14:00/11:00 check-in/out convention is a
// display concern.
const DateLayout = "2006-01-02"

// Booking models a traveler's request to reserve a Stay for a half-open
// [check_in, check_out) date range.
type Booking struct {
	gorm.Model
	StayID     uint      `json:"stay_id" gorm:"index"`
	TravelerID uint      `json:"user_id" gorm:"index"`
	CheckIn    time.Time `json:"check_in" gorm:"type:date"`
	CheckOut   time.Time `json:"check_out" gorm:"type:date"`
	Guests     int       `json:"guests"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'REQUESTED';index"`
	TotalPrice int       `json:"total_price"`

	Stay     *Stay `json:"stay,omitempty" gorm:"foreignKey:StayID"`
	Traveler *User `json:"user,omitempty" gorm:"foreignKey:TravelerID"`
}

// Nights is the length of the stay; the checkout day itself is not counted.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Terminal reports whether the booking can no longer change state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingAccepted || b.Status == BookingRejected
}

// Custom JSON marshaling to render dates as plain calendar dates and the
// traveler as a contact summary (owner dashboards need name/email/phone).
func (b *Booking) MarshalJSON() ([]byte, error) {
	type Alias Booking
	aux := &struct {
		CheckIn  string         `json:"check_in"`
		CheckOut string         `json:"check_out"`
		Traveler *TravelerBrief `json:"user,omitempty"`
		*Alias
	}{
		CheckIn:  b.CheckIn.Format(DateLayout),
		CheckOut: b.CheckOut.Format(DateLayout),
		Alias:    (*Alias)(b),
	}

	if b.Traveler != nil && b.Traveler.ID > 0 {
		aux.Traveler = &TravelerBrief{
			Name:        b.Traveler.Name,
			Email:       b.Traveler.Email,
			PhoneNumber: b.Traveler.PhoneNumber,
		}
	}

	return json.Marshal(aux)
}

// TravelerBrief is the requester summary embedded in booking responses.
type TravelerBrief struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
