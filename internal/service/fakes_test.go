package service

import (
	"sort"
	"time"

	"rentaride/internal/db"
	"rentaride/internal/entities"
	"rentaride/internal/errors"
	"rentaride/internal/repository"
)

// In-memory repositories for service tests. The booking fake enforces the
// same overlap rule as the bookings_no_overlap constraint so conflict paths
// behave like the real store.

type fakeBookingRepo struct {
	bookings []*db.Booking
	cars     *fakeCarRepo
	users    *fakeUserRepo
	nextID   int
}

func newFakeBookingRepo(cars *fakeCarRepo, users *fakeUserRepo) *fakeBookingRepo {
	return &fakeBookingRepo{cars: cars, users: users}
}

func overlaps(b *db.Booking, carID int, pickup, ret time.Time) bool {
	return b.CarID == carID && b.Status != StatusCancelled &&
		!b.PickupDate.After(ret) && !b.ReturnDate.Before(pickup)
}

func (r *fakeBookingRepo) Create(b *db.Booking) error {
	for _, existing := range r.bookings {
		if overlaps(existing, b.CarID, b.PickupDate, b.ReturnDate) {
			return errors.Conflict("car is not available")
		}
	}
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Unix(int64(r.nextID), 0)
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bookings = append(r.bookings, &clone)
	return nil
}

func (r *fakeBookingRepo) find(id int) *db.Booking {
	for _, b := range r.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (r *fakeBookingRepo) GetByID(id int) (*db.Booking, error) {
	if b := r.find(id); b != nil {
		clone := *b
		return &clone, nil
	}
	return nil, errors.NotFound("booking not found")
}

func (r *fakeBookingRepo) GetByStripeSessionID(sessionID string) (*db.Booking, error) {
	for _, b := range r.bookings {
		if b.StripeSessionID == sessionID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, errors.NotFound("booking not found")
}

func (r *fakeBookingRepo) HasOverlap(carID int, pickup, ret time.Time) (bool, error) {
	for _, b := range r.bookings {
		if overlaps(b, carID, pickup, ret) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) toResponse(b *db.Booking, withRenter bool) entities.BookingResponse {
	resp := entities.BookingResponse{
		ID:            b.ID,
		Code:          b.Code,
		OwnerID:       b.OwnerID,
		UserID:        b.UserID,
		PickupDate:    b.PickupDate,
		ReturnDate:    b.ReturnDate,
		Price:         b.Price,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
	}
	if car := r.cars.cars[b.CarID]; car != nil {
		resp.Car = entities.NewCarResponse(car)
	}
	if withRenter {
		if u := r.users.users[b.UserID]; u != nil {
			resp.User = &entities.RenterSummary{ID: u.ID, Name: u.Name, Image: u.Image}
		}
	}
	return resp
}

func (r *fakeBookingRepo) list(withRenter bool, match func(*db.Booking) bool) []entities.BookingResponse {
	out := []entities.BookingResponse{}
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, r.toResponse(b, withRenter))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeBookingRepo) ListByRenter(userID int) ([]entities.BookingResponse, error) {
	return r.list(false, func(b *db.Booking) bool { return b.UserID == userID }), nil
}

func (r *fakeBookingRepo) ListByOwner(ownerID int) ([]entities.BookingResponse, error) {
	return r.list(true, func(b *db.Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *fakeBookingRepo) UpdateStatus(id int, status string) error {
	b := r.find(id)
	if b == nil {
		return errors.NotFound("booking not found")
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) UpdateDates(id int, pickup, ret time.Time, price int) error {
	b := r.find(id)
	if b == nil {
		return errors.NotFound("booking not found")
	}
	for _, other := range r.bookings {
		if other.ID != id && overlaps(other, b.CarID, pickup, ret) {
			return errors.Conflict("car is not available")
		}
	}
	b.PickupDate = pickup
	b.ReturnDate = ret
	b.Price = price
	return nil
}

func (r *fakeBookingRepo) UpdatePayment(id int, paymentStatus, sessionID string) error {
	b := r.find(id)
	if b == nil {
		return errors.NotFound("booking not found")
	}
	b.PaymentStatus = paymentStatus
	b.StripeSessionID = sessionID
	return nil
}

func (r *fakeBookingRepo) UpdatePaymentBySessionID(sessionID, paymentStatus string) error {
	for _, b := range r.bookings {
		if b.StripeSessionID == sessionID {
			b.PaymentStatus = paymentStatus
			return nil
		}
	}
	return errors.NotFound("booking not found")
}

func (r *fakeBookingRepo) OwnerStats(ownerID int) (*repository.OwnerStats, error) {
	stats := &repository.OwnerStats{}
	for _, b := range r.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		stats.TotalBookings++
		switch b.Status {
		case StatusPending:
			stats.PendingBookings++
		case StatusConfirmed:
			stats.ConfirmedBookings++
			stats.ConfirmedRevenue += b.Price
		}
	}
	return stats, nil
}

type fakeCarRepo struct {
	cars     map[int]*db.Car
	bookings *fakeBookingRepo
	nextID   int
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[int]*db.Car)}
}

func (r *fakeCarRepo) Create(car *db.Car) error {
	r.nextID++
	car.ID = r.nextID
	car.CreatedAt = time.Unix(int64(r.nextID), 0)
	car.UpdatedAt = car.CreatedAt
	clone := *car
	r.cars[car.ID] = &clone
	return nil
}

func (r *fakeCarRepo) GetByID(id int) (*db.Car, error) {
	if car, ok := r.cars[id]; ok {
		clone := *car
		return &clone, nil
	}
	return nil, errors.NotFound("car not found")
}

func (r *fakeCarRepo) sorted(match func(*db.Car) bool) []db.Car {
	var out []db.Car
	for _, car := range r.cars {
		if match(car) {
			out = append(out, *car)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeCarRepo) ListByOwner(ownerID int) ([]db.Car, error) {
	return r.sorted(func(c *db.Car) bool {
		return c.OwnerID.Valid && int(c.OwnerID.Int64) == ownerID
	}), nil
}

func (r *fakeCarRepo) ListAvailable() ([]db.Car, error) {
	return r.sorted(func(c *db.Car) bool { return c.IsAvailable && c.OwnerID.Valid }), nil
}

func (r *fakeCarRepo) ListAvailableForRange(location string, pickup, ret time.Time) ([]db.Car, error) {
	return r.sorted(func(c *db.Car) bool {
		if c.Location != location || !c.IsAvailable || !c.OwnerID.Valid {
			return false
		}
		if r.bookings == nil {
			return true
		}
		overlap, _ := r.bookings.HasOverlap(c.ID, pickup, ret)
		return !overlap
	}), nil
}

func (r *fakeCarRepo) Update(car *db.Car) error {
	if _, ok := r.cars[car.ID]; !ok {
		return errors.NotFound("car not found")
	}
	clone := *car
	r.cars[car.ID] = &clone
	return nil
}

func (r *fakeCarRepo) SetAvailability(id int, available bool) error {
	if car, ok := r.cars[id]; ok {
		car.IsAvailable = available
		return nil
	}
	return errors.NotFound("car not found")
}

func (r *fakeCarRepo) SoftDelete(id int) error {
	if car, ok := r.cars[id]; ok {
		car.OwnerID.Valid = false
		car.IsAvailable = false
		return nil
	}
	return errors.NotFound("car not found")
}

func (r *fakeCarRepo) CountByOwner(ownerID int) (int, error) {
	count := 0
	for _, car := range r.cars {
		if car.OwnerID.Valid && int(car.OwnerID.Int64) == ownerID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[int]*db.User
}

func newFakeUserRepo(users ...*db.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*db.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(id int) (*db.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, errors.NotFound("user not found")
}

func (r *fakeUserRepo) UpdateRole(id int, role string) error {
	if u, ok := r.users[id]; ok {
		u.Role = role
		return nil
	}
	return errors.NotFound("user not found")
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	emails []entities.BookingNotification
	sms    []entities.BookingNotification
}

func (n *recordingNotifier) SendBookingEmail(msg entities.BookingNotification) {
	n.emails = append(n.emails, msg)
}

func (n *recordingNotifier) SendBookingSMS(msg entities.BookingNotification) {
	n.sms = append(n.sms, msg)
}

// fakePayments returns a canned checkout session.
type fakePayments struct {
	sessions int
	refunds  []string
}

func (p *fakePayments) CreateCheckoutSession(amount int64, currency, description, customerEmail string) (string, string, error) {
	p.sessions++
	return "https://pay.example/session", "cs_test_1", nil
}

func (p *fakePayments) RefundPaymentBySessionID(sessionID string) error {
	p.refunds = append(p.refunds, sessionID)
	return nil
}
