package entities

import (
	"time"

	"rentaride/internal/db"
)

type CreateBookingRequest struct {
	Car        int    `json:"car"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

type CreateBookingResult struct {
	Code     string `json:"code"`
	Price    int    `json:"price"`
	NoOfDays int    `json:"noOfDays"`
}

type ChangeStatusRequest struct {
	BookingID int    `json:"bookingId"`
	Status    string `json:"status"`
}

type UpdateBookingRequest struct {
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

// RenterSummary is what an owner gets to see about the renter. Credential and
// contact fields stay out of the listing.
type RenterSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// BookingResponse is a booking joined with its car (and, for owner listings,
// the renter).
type BookingResponse struct {
	ID            int            `json:"id"`
	Code          string         `json:"code"`
	Car           CarResponse    `json:"car"`
	OwnerID       int            `json:"owner"`
	UserID        int            `json:"-"`
	User          *RenterSummary `json:"user,omitempty"`
	PickupDate    time.Time      `json:"pickupDate"`
	ReturnDate    time.Time      `json:"returnDate"`
	Price         int            `json:"price"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// BookingRecord is the flat, unjoined shape returned when fetching a single
// booking by id.
type BookingRecord struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	Car           int       `json:"car"`
	OwnerID       int       `json:"owner"`
	UserID        int       `json:"user"`
	PickupDate    time.Time `json:"pickupDate"`
	ReturnDate    time.Time `json:"returnDate"`
	Price         int       `json:"price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewBookingRecord(b *db.Booking) BookingRecord {
	return BookingRecord{
		ID:            b.ID,
		Code:          b.Code,
		Car:           b.CarID,
		OwnerID:       b.OwnerID,
		UserID:        b.UserID,
		PickupDate:    b.PickupDate,
		ReturnDate:    b.ReturnDate,
		Price:         b.Price,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
