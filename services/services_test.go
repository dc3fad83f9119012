package services

import (
	"encoding/json"
	"testing"
	"time"

	"localstay-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Stay{},
		&models.Booking{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, role, verification string) models.User {
	t.Helper()
	user := models.User{
		Name:               role + "-user",
		Email:              role + "-" + time.Now().Format("150405.000000000") + "@example.com",
		Role:               role,
		VerificationStatus: verification,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createStay(t *testing.T, db *gorm.DB, hostID uint, price int) models.Stay {
	t.Helper()
	images, _ := json.Marshal([]string{"https://img.example/cover.jpg"})
	active := true
	stay := models.Stay{
		HostID:        hostID,
		Name:          "Seaside Flat",
		Location:      "Nouakchott",
		PricePerNight: price,
		ImageURL:      "https://img.example/cover.jpg",
		Images:        images,
		IsActive:      &active,
	}
	if err := db.Create(&stay).Error; err != nil {
		t.Fatalf("create stay: %v", err)
	}
	return stay
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createBooking(t *testing.T, db *gorm.DB, stayID, travelerID uint, checkIn, checkOut time.Time, status string) models.Booking {
	t.Helper()
	booking := models.Booking{
		StayID:     stayID,
		TravelerID: travelerID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		Status:     status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func bookingStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		t.Fatalf("reload booking %d: %v", id, err)
	}
	return booking.Status
}
