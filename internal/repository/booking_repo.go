package repository

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentaride/internal/db"
	"rentaride/internal/entities"
	"rentaride/internal/errors"
)

// OwnerStats are the aggregate counts behind the owner dashboard.
type OwnerStats struct {
	TotalBookings     int
	PendingBookings   int
	ConfirmedBookings int
	ConfirmedRevenue  int
}

type BookingRepository interface {
	Create(b *db.Booking) error
	GetByID(id int) (*db.Booking, error)
	GetByStripeSessionID(sessionID string) (*db.Booking, error)
	HasOverlap(carID int, pickupDate, returnDate time.Time) (bool, error)
	ListByRenter(userID int) ([]entities.BookingResponse, error)
	ListByOwner(ownerID int) ([]entities.BookingResponse, error)
	UpdateStatus(id int, status string) error
	UpdateDates(id int, pickupDate, returnDate time.Time, price int) error
	UpdatePayment(id int, paymentStatus, sessionID string) error
	UpdatePaymentBySessionID(sessionID, paymentStatus string) error
	OwnerStats(ownerID int) (*OwnerStats, error)
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{db: database}
}

const bookingColumns = `id, code, car_id, owner_id, user_id, pickup_date, return_date,
	price, status, payment_status, stripe_session_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(&b.ID, &b.Code, &b.CarID, &b.OwnerID, &b.UserID, &b.PickupDate, &b.ReturnDate,
		&b.Price, &b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// translateWriteErr turns an exclusion_violation on bookings_no_overlap into
// the same Conflict the pre-check reports. The constraint is what makes the
// availability invariant hold under concurrent writes.
func translateWriteErr(err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "23P01" {
		return errors.Conflict("car is not available")
	}
	return err
}

func (r *bookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(code, car_id, owner_id, user_id, pickup_date, return_date, price, status,
		 payment_status, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		b.Code,
		b.CarID,
		b.OwnerID,
		b.UserID,
		b.PickupDate,
		b.ReturnDate,
		b.Price,
		b.Status,
		b.PaymentStatus,
		b.StripeSessionID,
		time.Now().UTC(),
		time.Now().UTC(),
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return translateWriteErr(err)
	}
	return nil
}

func (r *bookingRepository) GetByID(id int) (*db.Booking, error) {
	row := r.db.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return booking, nil
}

func (r *bookingRepository) GetByStripeSessionID(sessionID string) (*db.Booking, error) {
	row := r.db.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1`, sessionID)
	booking, err := scanBooking(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error querying booking for session %s: %w", sessionID, err)
	}
	return booking, nil
}

// HasOverlap is the interval-intersection test: [pickup, return] of any
// non-cancelled booking of the car against the requested range, both ends
// inclusive.
func (r *bookingRepository) HasOverlap(carID int, pickupDate, returnDate time.Time) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE car_id = $1
		  AND status <> 'cancelled'
		  AND pickup_date <= $3
		  AND return_date >= $2`
	err := r.db.QueryRow(query, carID, pickupDate, returnDate).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking booking overlap for car %d: %w", carID, err)
	}
	return count > 0, nil
}

func (r *bookingRepository) ListByRenter(userID int) ([]entities.BookingResponse, error) {
	query := `
		SELECT
			b.id, b.code, b.owner_id, b.user_id, b.pickup_date, b.return_date,
			b.price, b.status, b.payment_status, b.created_at,
			c.id, c.owner_id, c.brand, c.model, c.year, c.price_per_day, c.category,
			c.transmission, c.fuel_type, c.seating_capacity, c.location, c.description,
			c.image, c.is_available, c.created_at, c.updated_at
		FROM bookings b
		JOIN cars c ON b.car_id = c.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for user %d: %w", userID, err)
	}
	defer rows.Close()
	return collectBookings(rows, false)
}

func (r *bookingRepository) ListByOwner(ownerID int) ([]entities.BookingResponse, error) {
	query := `
		SELECT
			b.id, b.code, b.owner_id, b.user_id, b.pickup_date, b.return_date,
			b.price, b.status, b.payment_status, b.created_at,
			c.id, c.owner_id, c.brand, c.model, c.year, c.price_per_day, c.category,
			c.transmission, c.fuel_type, c.seating_capacity, c.location, c.description,
			c.image, c.is_available, c.created_at, c.updated_at,
			u.id, u.name, u.image
		FROM bookings b
		JOIN cars c ON b.car_id = c.id
		JOIN users u ON b.user_id = u.id
		WHERE b.owner_id = $1
		ORDER BY b.created_at DESC`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for owner %d: %w", ownerID, err)
	}
	defer rows.Close()
	return collectBookings(rows, true)
}

func collectBookings(rows *sql.Rows, withRenter bool) ([]entities.BookingResponse, error) {
	bookings := []entities.BookingResponse{}
	for rows.Next() {
		var resp entities.BookingResponse
		var car db.Car
		dest := []any{
			&resp.ID, &resp.Code, &resp.OwnerID, &resp.UserID, &resp.PickupDate, &resp.ReturnDate,
			&resp.Price, &resp.Status, &resp.PaymentStatus, &resp.CreatedAt,
			&car.ID, &car.OwnerID, &car.Brand, &car.Model, &car.Year, &car.PricePerDay, &car.Category,
			&car.Transmission, &car.FuelType, &car.SeatingCapacity, &car.Location, &car.Description,
			&car.Image, &car.IsAvailable, &car.CreatedAt, &car.UpdatedAt,
		}
		var renter entities.RenterSummary
		if withRenter {
			dest = append(dest, &renter.ID, &renter.Name, &renter.Image)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		resp.Car = entities.NewCarResponse(&car)
		if withRenter {
			resp.User = &renter
		}
		bookings = append(bookings, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(id int, status string) error {
	result, err := r.db.Exec(`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return translateWriteErr(err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFound("booking not found")
	}
	return nil
}

func (r *bookingRepository) UpdateDates(id int, pickupDate, returnDate time.Time, price int) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET pickup_date = $2, return_date = $3, price = $4, updated_at = $5 WHERE id = $1`,
		id, pickupDate, returnDate, price, time.Now().UTC())
	if err != nil {
		return translateWriteErr(err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFound("booking not found")
	}
	return nil
}

func (r *bookingRepository) UpdatePayment(id int, paymentStatus, sessionID string) error {
	_, err := r.db.Exec(
		`UPDATE bookings SET payment_status = $2, stripe_session_id = $3, updated_at = $4 WHERE id = $1`,
		id, paymentStatus, sessionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error updating payment info for booking %d: %w", id, err)
	}
	return nil
}

func (r *bookingRepository) UpdatePaymentBySessionID(sessionID, paymentStatus string) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET payment_status = $2, updated_at = $3 WHERE stripe_session_id = $1`,
		sessionID, paymentStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error updating payment status for session %s: %w", sessionID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFound("booking not found")
	}
	return nil
}

func (r *bookingRepository) OwnerStats(ownerID int) (*OwnerStats, error) {
	var stats OwnerStats
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COALESCE(SUM(price) FILTER (WHERE status = 'confirmed'), 0)
		FROM bookings
		WHERE owner_id = $1`
	err := r.db.QueryRow(query, ownerID).Scan(
		&stats.TotalBookings, &stats.PendingBookings, &stats.ConfirmedBookings, &stats.ConfirmedRevenue)
	if err != nil {
		return nil, fmt.Errorf("error aggregating bookings for owner %d: %w", ownerID, err)
	}
	return &stats, nil
}
