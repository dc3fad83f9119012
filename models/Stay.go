package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Stay struct {
	gorm.Model
	HostID        uint           `json:"owner_id"`
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	Description   string         `json:"description"`
	PricePerNight int            `json:"price_per_night"`
	ImageURL      string         `json:"image_url"` // cover, must be one of Images (or empty)
	Images        datatypes.JSON `json:"images"`
	Facilities    datatypes.JSON `json:"facilities"`
	MaxGuests     int            `json:"max_guests"` // 0 means the global cap applies
	IsActive      *bool          `json:"is_active" gorm:"default:true"`

	Host     *User     `json:"owner,omitempty" gorm:"foreignKey:HostID"`
	Bookings []Booking `json:"-" gorm:"foreignKey:StayID"`
}

// Custom JSON marshaling so Images and Facilities come out as arrays,
// never as raw JSON blobs or null.
func (s *Stay) MarshalJSON() ([]byte, error) {
	type Alias Stay
	aux := &struct {
		Images     []string   `json:"images"`
		Facilities []string   `json:"facilities"`
		Host       *UserBrief `json:"owner,omitempty"`
		*Alias
	}{
		Images:     []string{},
		Facilities: []string{},
		Alias:      (*Alias)(s),
	}

	if s.Images != nil {
		var images []string
		if err := json.Unmarshal(s.Images, &images); err == nil {
			aux.Images = images
		}
	}

	if s.Facilities != nil {
		var facilities []string
		if err := json.Unmarshal(s.Facilities, &facilities); err == nil {
			aux.Facilities = facilities
		}
	}

	// Only expose safe host contact fields, not the full user record.
	if s.Host != nil && s.Host.ID > 0 {
		aux.Host = &UserBrief{Name: s.Host.Name, PhoneNumber: s.Host.PhoneNumber}
	}

	return json.Marshal(aux)
}

// UserBrief is the owner summary embedded in stay responses.
type UserBrief struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
