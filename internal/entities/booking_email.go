package entities

// BookingNotification carries everything the sender needs to notify a renter
// about a booking, assembled once by the booking service.
type BookingNotification struct {
	UserName            string
	UserEmail           string
	UserPhone           string
	BookingCode         string
	CarName             string
	Location            string
	PickupDateFormatted string
	ReturnDateFormatted string
	Price               int
	Status              string
	PaymentURL          string
	CurrentYear         int
}
