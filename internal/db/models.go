package db

import (
	"database/sql"
	"time"
)

type User struct {
	ID        int
	Name      string
	Email     string
	Phone     string
	Role      string
	Image     string
	CreatedAt time.Time
}

// Car keeps OwnerID nullable: removing a car only clears the owner and marks it
// unavailable, so existing bookings that reference it keep resolving.
type Car struct {
	ID              int
	OwnerID         sql.NullInt64
	Brand           string
	Model           string
	Year            int
	PricePerDay     int
	Category        string
	Transmission    string
	FuelType        string
	SeatingCapacity int
	Location        string
	Description     string
	Image           string
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Booking struct {
	ID              int
	Code            string
	CarID           int
	OwnerID         int
	UserID          int
	PickupDate      time.Time
	ReturnDate      time.Time
	Price           int
	Status          string
	PaymentStatus   string
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
