package entities

import (
	"time"

	"rentaride/internal/db"
)

// CarRequest is the payload for adding or editing a car. The image is a plain
// URL; upload and transformation happen outside this service.
type CarRequest struct {
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	PricePerDay     int    `json:"pricePerDay"`
	Category        string `json:"category"`
	Transmission    string `json:"transmission"`
	FuelType        string `json:"fuelType"`
	SeatingCapacity int    `json:"seatingCapacity"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	Image           string `json:"image"`
}

type CarResponse struct {
	ID              int       `json:"id"`
	Owner           *int      `json:"owner"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	PricePerDay     int       `json:"pricePerDay"`
	Category        string    `json:"category"`
	Transmission    string    `json:"transmission"`
	FuelType        string    `json:"fuelType"`
	SeatingCapacity int       `json:"seatingCapacity"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewCarResponse(c *db.Car) CarResponse {
	resp := CarResponse{
		ID:              c.ID,
		Brand:           c.Brand,
		Model:           c.Model,
		Year:            c.Year,
		PricePerDay:     c.PricePerDay,
		Category:        c.Category,
		Transmission:    c.Transmission,
		FuelType:        c.FuelType,
		SeatingCapacity: c.SeatingCapacity,
		Location:        c.Location,
		Description:     c.Description,
		Image:           c.Image,
		IsAvailable:     c.IsAvailable,
		CreatedAt:       c.CreatedAt,
	}
	if c.OwnerID.Valid {
		owner := int(c.OwnerID.Int64)
		resp.Owner = &owner
	}
	return resp
}
