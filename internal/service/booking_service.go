package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rentaride/internal/auth"
	"rentaride/internal/db"
	"rentaride/internal/entities"
	"rentaride/internal/errors"
	"rentaride/internal/repository"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// statusTransitions is the closed transition table. Anything not listed is
// rejected, including re-opening a terminal state.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func ValidTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Notifier delivers booking notifications to the renter. Implementations must
// not block the request path.
type Notifier interface {
	SendBookingEmail(n entities.BookingNotification)
	SendBookingSMS(n entities.BookingNotification)
}

// PaymentProvider creates and refunds checkout payments for bookings.
type PaymentProvider interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail string) (string, string, error)
	RefundPaymentBySessionID(sessionID string) error
}

type BookingService struct {
	Repo     repository.BookingRepository
	Cars     repository.CarRepository
	Users    repository.UserRepository
	notifier Notifier
	payments PaymentProvider
}

func NewBookingService(repo repository.BookingRepository, cars repository.CarRepository,
	users repository.UserRepository, notifier Notifier, payments PaymentProvider) *BookingService {
	return &BookingService{
		Repo:     repo,
		Cars:     cars,
		Users:    users,
		notifier: notifier,
		payments: payments,
	}
}

// IsAvailable reports whether the car has no booking overlapping the range.
// Read-only; callers are responsible for pickupDate <= returnDate.
func (s *BookingService) IsAvailable(carID int, pickupDate, returnDate time.Time) (bool, error) {
	overlap, err := s.Repo.HasOverlap(carID, pickupDate, returnDate)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// SearchAvailableCars returns every listed car at the location that is free
// for the whole range.
func (s *BookingService) SearchAvailableCars(location string, pickupDate, returnDate time.Time) ([]entities.CarResponse, error) {
	cars, err := s.Cars.ListAvailableForRange(location, pickupDate, returnDate)
	if err != nil {
		return nil, err
	}
	responses := make([]entities.CarResponse, 0, len(cars))
	for i := range cars {
		responses = append(responses, entities.NewCarResponse(&cars[i]))
	}
	return responses, nil
}

// CreateBooking checks availability, prices the range against the car's
// current daily rate and inserts a pending booking with the owner copied from
// the car. The pre-check gives the friendly Conflict; the overlap constraint
// in the store catches whatever races past it.
func (s *BookingService) CreateBooking(renter *db.User, carID int, pickupDate, returnDate time.Time) (*entities.CreateBookingResult, error) {
	car, err := s.Cars.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if !car.OwnerID.Valid {
		return nil, errors.Conflict("car is not available")
	}

	available, err := s.IsAvailable(carID, pickupDate, returnDate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errors.Conflict("car is not available")
	}

	days := NoOfDays(pickupDate, returnDate)
	booking := &db.Booking{
		Code:       uuid.NewString(),
		CarID:      car.ID,
		OwnerID:    int(car.OwnerID.Int64),
		UserID:     renter.ID,
		PickupDate: pickupDate,
		ReturnDate: returnDate,
		Price:      car.PricePerDay * days,
		Status:     StatusPending,
	}
	if err := s.Repo.Create(booking); err != nil {
		return nil, err
	}

	s.notifyRenter(renter, booking, car, StatusPending, "")

	return &entities.CreateBookingResult{
		Code:     booking.Code,
		Price:    booking.Price,
		NoOfDays: days,
	}, nil
}

func (s *BookingService) ListForRenter(userID int) ([]entities.BookingResponse, error) {
	return s.Repo.ListByRenter(userID)
}

func (s *BookingService) ListForOwner(caller *db.User) ([]entities.BookingResponse, error) {
	if !auth.IsOwnerRole(caller) {
		return nil, errors.Forbidden("unauthorized")
	}
	return s.Repo.ListByOwner(caller.ID)
}

func (s *BookingService) GetBooking(id int) (*db.Booking, error) {
	return s.Repo.GetByID(id)
}

// ChangeStatus moves a booking along the transition table. Only the booking's
// owner may do this. Confirming kicks off payment collection; cancelling a
// paid booking refunds it.
func (s *BookingService) ChangeStatus(caller *db.User, bookingID int, newStatus string) error {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if !auth.CanManageBooking(caller, booking) {
		return errors.Forbidden("unauthorized")
	}
	if !ValidTransition(booking.Status, newStatus) {
		return errors.Invalid(fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, newStatus))
	}
	if err := s.Repo.UpdateStatus(bookingID, newStatus); err != nil {
		return err
	}

	paymentURL := ""
	switch newStatus {
	case StatusConfirmed:
		paymentURL = s.startPayment(booking)
	case StatusCancelled:
		s.refundIfPaid(booking)
	}

	renter, err := s.Users.GetByID(booking.UserID)
	if err != nil {
		log.Printf("Booking %s: could not load renter for notification: %v", booking.Code, err)
		return nil
	}
	car, err := s.Cars.GetByID(booking.CarID)
	if err != nil {
		log.Printf("Booking %s: could not load car for notification: %v", booking.Code, err)
		return nil
	}
	s.notifyRenter(renter, booking, car, newStatus, paymentURL)
	return nil
}

// EditBooking overwrites the dates and recomputes the price wholesale from the
// car's current daily rate. Faithful to the original surface, it does not
// check who the caller is and does not pre-check availability; the overlap
// constraint still rejects a rewrite into a booked range.
func (s *BookingService) EditBooking(bookingID int, pickupDate, returnDate time.Time) (*db.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	car, err := s.Cars.GetByID(booking.CarID)
	if err != nil {
		return nil, err
	}

	price := ComputePrice(car.PricePerDay, pickupDate, returnDate)
	if err := s.Repo.UpdateDates(bookingID, pickupDate, returnDate, price); err != nil {
		return nil, err
	}

	booking.PickupDate = pickupDate
	booking.ReturnDate = returnDate
	booking.Price = price
	return booking, nil
}

// MarkPaymentBySessionID is called from the payment webhook. A successful
// payment triggers a receipt notification to the renter.
func (s *BookingService) MarkPaymentBySessionID(sessionID, paymentStatus string) error {
	if err := s.Repo.UpdatePaymentBySessionID(sessionID, paymentStatus); err != nil {
		return err
	}
	if paymentStatus != PaymentPaid {
		return nil
	}
	booking, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		log.Printf("Payment session %s: could not load booking for receipt: %v", sessionID, err)
		return nil
	}
	renter, err := s.Users.GetByID(booking.UserID)
	if err != nil {
		log.Printf("Booking %s: could not load renter for receipt: %v", booking.Code, err)
		return nil
	}
	car, err := s.Cars.GetByID(booking.CarID)
	if err != nil {
		log.Printf("Booking %s: could not load car for receipt: %v", booking.Code, err)
		return nil
	}
	s.notifyRenter(renter, booking, car, booking.Status, "")
	return nil
}

func (s *BookingService) startPayment(booking *db.Booking) string {
	if s.payments == nil {
		return ""
	}
	renter, err := s.Users.GetByID(booking.UserID)
	if err != nil {
		log.Printf("Booking %s: could not load renter for payment: %v", booking.Code, err)
		return ""
	}
	amount := int64(booking.Price) * 100
	url, sessionID, err := s.payments.CreateCheckoutSession(amount, "usd", "Booking "+booking.Code, renter.Email)
	if err != nil {
		log.Printf("Booking %s: could not create checkout session: %v", booking.Code, err)
		return ""
	}
	if err := s.Repo.UpdatePayment(booking.ID, PaymentPending, sessionID); err != nil {
		log.Printf("Booking %s: could not store payment session: %v", booking.Code, err)
	}
	return url
}

func (s *BookingService) refundIfPaid(booking *db.Booking) {
	if s.payments == nil || booking.PaymentStatus != PaymentPaid || booking.StripeSessionID == "" {
		return
	}
	if err := s.payments.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
		log.Printf("Booking %s: refund failed: %v", booking.Code, err)
		return
	}
	if err := s.Repo.UpdatePayment(booking.ID, PaymentRefunded, booking.StripeSessionID); err != nil {
		log.Printf("Booking %s: could not store refund status: %v", booking.Code, err)
	}
}

func (s *BookingService) notifyRenter(renter *db.User, booking *db.Booking, car *db.Car, status, paymentURL string) {
	if s.notifier == nil {
		return
	}
	n := entities.BookingNotification{
		UserName:            renter.Name,
		UserEmail:           renter.Email,
		UserPhone:           renter.Phone,
		BookingCode:         booking.Code,
		CarName:             fmt.Sprintf("%s %s", car.Brand, car.Model),
		Location:            car.Location,
		PickupDateFormatted: booking.PickupDate.Format("02 Jan 2006"),
		ReturnDateFormatted: booking.ReturnDate.Format("02 Jan 2006"),
		Price:               booking.Price,
		Status:              status,
		PaymentURL:          paymentURL,
		CurrentYear:         time.Now().UTC().Year(),
	}
	s.notifier.SendBookingEmail(n)
	s.notifier.SendBookingSMS(n)
}
