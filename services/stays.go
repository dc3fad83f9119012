package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"localstay-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StayService is the registry of property listings. It owns create/update/
// delete with ownership enforcement and the delete-cascade to bookings.
type StayService struct {
	db *gorm.DB
}

func NewStayService(db *gorm.DB) *StayService {
	return &StayService{db: db}
}

type CreateStayInput struct {
	Name          string
	Location      string
	Description   string
	PricePerNight int
	ImageURL      string
	Images        []string
	Facilities    []string
	MaxGuests     int
}

type UpdateStayInput struct {
	Name          *string
	Location      *string
	Description   *string
	PricePerNight *int
	ImageURL      *string
	Images        []string
	Facilities    []string
	MaxGuests     *int
}

type StayFilter struct {
	Location string
	Skip     int
	Limit    int
}

// Create registers a new listing for a verified host.
func (s *StayService) Create(actor Actor, input CreateStayInput) (*models.Stay, error) {
	if !CanPerform(actor, ActionCreateStay, actor.ID) {
		return nil, permissionDenied("only hosts can create stays")
	}

	var host models.User
	if err := s.db.First(&host, actor.ID).Error; err != nil {
		return nil, permissionDenied("host account not found")
	}
	if !host.IsVerifiedHost() {
		return nil, permissionDenied("owner not verified by admin yet")
	}

	if err := validateStayFields(input.PricePerNight, input.ImageURL, input.Images); err != nil {
		return nil, err
	}

	imagesJSON, _ := json.Marshal(input.Images)
	facilitiesJSON, _ := json.Marshal(dedupeStrings(input.Facilities))

	stay := models.Stay{
		HostID:        actor.ID,
		Name:          input.Name,
		Location:      input.Location,
		Description:   input.Description,
		PricePerNight: input.PricePerNight,
		ImageURL:      input.ImageURL,
		Images:        imagesJSON,
		Facilities:    facilitiesJSON,
		MaxGuests:     input.MaxGuests,
	}

	if err := s.db.Create(&stay).Error; err != nil {
		return nil, err
	}
	return &stay, nil
}

// Update mutates a listing. Only the owning, still-verified host may update.
func (s *StayService) Update(actor Actor, stayID uint, input UpdateStayInput) (*models.Stay, error) {
	var stay models.Stay
	if err := s.db.First(&stay, stayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stay not found")
		}
		return nil, err
	}

	if !CanPerform(actor, ActionUpdateStay, stay.HostID) {
		return nil, permissionDenied("you do not own this stay")
	}

	var host models.User
	if err := s.db.First(&host, actor.ID).Error; err != nil || !host.IsVerifiedHost() {
		return nil, permissionDenied("owner not verified by admin yet")
	}

	if input.Name != nil {
		stay.Name = *input.Name
	}
	if input.Location != nil {
		stay.Location = *input.Location
	}
	if input.Description != nil {
		stay.Description = *input.Description
	}
	if input.PricePerNight != nil {
		stay.PricePerNight = *input.PricePerNight
	}
	if input.ImageURL != nil {
		stay.ImageURL = *input.ImageURL
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		stay.Images = imagesJSON
	}
	if input.Facilities != nil {
		facilitiesJSON, _ := json.Marshal(dedupeStrings(input.Facilities))
		stay.Facilities = facilitiesJSON
	}
	if input.MaxGuests != nil {
		stay.MaxGuests = *input.MaxGuests
	}

	var images []string
	json.Unmarshal(stay.Images, &images)
	if err := validateStayFields(stay.PricePerNight, stay.ImageURL, images); err != nil {
		return nil, err
	}

	if err := s.db.Save(&stay).Error; err != nil {
		return nil, err
	}
	return &stay, nil
}

// Delete removes a stay and every booking referencing it, atomically, so no
// orphan bookings survive. An admin may delete any stay; a host only their
// own. The transaction locks the stay row, which serializes the cascade
// against in-flight accepts on the same stay.
func (s *StayService) Delete(ctx context.Context, actor Actor, stayID uint) error {
	ctx, cancel := context.WithTimeout(ctx, engineTimeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stay models.Stay
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stay, stayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("stay not found")
			}
			return err
		}

		if !CanPerform(actor, ActionDeleteStay, stay.HostID) {
			return permissionDenied("you do not own this stay")
		}

		if err := tx.Unscoped().Where("stay_id = ?", stayID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&stay).Error
	})
	return translateTxError(err)
}

// Get returns a single published listing; no auth required.
func (s *StayService) Get(stayID uint) (*models.Stay, error) {
	var stay models.Stay
	if err := s.db.Preload("Host").First(&stay, stayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stay not found")
		}
		return nil, err
	}
	return &stay, nil
}

// List returns published listings: active stays whose hosts are verified.
// Stays of banned (or not yet verified) hosts never appear here.
func (s *StayService) List(filter StayFilter) ([]models.Stay, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := s.db.Model(&models.Stay{}).
		Joins("JOIN users ON users.id = stays.host_id").
		Where("stays.is_active = ?", true).
		Where("users.role = ? AND users.verification_status = ?", models.RoleHost, models.VerificationVerified).
		Preload("Host")

	if filter.Location != "" {
		query = query.Where("lower(stays.location) LIKE lower(?)", "%"+filter.Location+"%")
	}

	var stays []models.Stay
	if err := query.Offset(filter.Skip).Limit(limit).Find(&stays).Error; err != nil {
		return nil, err
	}
	return stays, nil
}

// ListForHost returns the actor's own listings regardless of verification
// state, so a banned host still sees (but cannot mutate) their stays.
func (s *StayService) ListForHost(actor Actor) ([]models.Stay, error) {
	if actor.Role != models.RoleHost {
		return nil, permissionDenied("not a host account")
	}
	var stays []models.Stay
	if err := s.db.Where("host_id = ?", actor.ID).Order("created_at DESC").Find(&stays).Error; err != nil {
		return nil, err
	}
	return stays, nil
}

func validateStayFields(price int, cover string, images []string) error {
	if price <= 0 {
		return validationError("price_per_night must be positive")
	}
	if len(images) == 0 {
		return validationError("at least one image is required")
	}
	if cover != "" {
		found := false
		for _, img := range images {
			if img == cover {
				found = true
				break
			}
		}
		if !found {
			return validationError("image_url must be one of images")
		}
	}
	return nil
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// engineTimeout bounds every transactional engine operation; a stalled
// transaction surfaces as ErrUnavailable instead of blocking the caller.
const engineTimeout = 5 * time.Second

// translateTxError maps driver-level timeout/cancellation failures onto the
// engine taxonomy and passes engine errors through untouched.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unavailable("operation timed out, please retry")
	}
	return err
}
