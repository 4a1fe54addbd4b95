package entities

type CheckAvailabilityRequest struct {
	Location   string `json:"location"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}
