package repository

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"rentaride/internal/db"
	"rentaride/internal/errors"
)

type CarRepository interface {
	Create(car *db.Car) error
	GetByID(id int) (*db.Car, error)
	ListByOwner(ownerID int) ([]db.Car, error)
	ListAvailable() ([]db.Car, error)
	ListAvailableForRange(location string, pickupDate, returnDate time.Time) ([]db.Car, error)
	Update(car *db.Car) error
	SetAvailability(id int, available bool) error
	SoftDelete(id int) error
	CountByOwner(ownerID int) (int, error)
}

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(database *sql.DB) CarRepository {
	return &carRepository{db: database}
}

const carColumns = `id, owner_id, brand, model, year, price_per_day, category, transmission,
	fuel_type, seating_capacity, location, description, image, is_available, created_at, updated_at`

func scanCar(row interface{ Scan(...any) error }) (*db.Car, error) {
	var c db.Car
	err := row.Scan(&c.ID, &c.OwnerID, &c.Brand, &c.Model, &c.Year, &c.PricePerDay, &c.Category,
		&c.Transmission, &c.FuelType, &c.SeatingCapacity, &c.Location, &c.Description, &c.Image,
		&c.IsAvailable, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *carRepository) Create(car *db.Car) error {
	query := `
		INSERT INTO cars
		(owner_id, brand, model, year, price_per_day, category, transmission, fuel_type,
		 seating_capacity, location, description, image, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(query,
		car.OwnerID,
		car.Brand,
		car.Model,
		car.Year,
		car.PricePerDay,
		car.Category,
		car.Transmission,
		car.FuelType,
		car.SeatingCapacity,
		car.Location,
		car.Description,
		car.Image,
		car.IsAvailable,
		time.Now().UTC(),
		time.Now().UTC(),
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)
}

func (r *carRepository) GetByID(id int) (*db.Car, error) {
	row := r.db.QueryRow(`SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	car, err := scanCar(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("car not found")
		}
		return nil, fmt.Errorf("error querying car %d: %w", id, err)
	}
	return car, nil
}

func (r *carRepository) listCars(query string, args ...any) ([]db.Car, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying cars: %w", err)
	}
	defer rows.Close()

	var cars []db.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning car: %w", err)
		}
		cars = append(cars, *car)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating car rows: %w", err)
	}
	return cars, nil
}

func (r *carRepository) ListByOwner(ownerID int) ([]db.Car, error) {
	return r.listCars(`SELECT `+carColumns+` FROM cars WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *carRepository) ListAvailable() ([]db.Car, error) {
	return r.listCars(`SELECT ` + carColumns + ` FROM cars WHERE is_available AND owner_id IS NOT NULL ORDER BY created_at DESC`)
}

// ListAvailableForRange returns listed cars at a location with no booking
// overlapping [pickupDate, returnDate]. The overlap predicate matches the
// bookings_no_overlap constraint.
func (r *carRepository) ListAvailableForRange(location string, pickupDate, returnDate time.Time) ([]db.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars c
		WHERE c.location = $1
		  AND c.is_available
		  AND c.owner_id IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.car_id = c.id
			  AND b.status <> 'cancelled'
			  AND b.pickup_date <= $3
			  AND b.return_date >= $2
		  )
		ORDER BY c.created_at DESC`
	return r.listCars(query, location, pickupDate, returnDate)
}

func (r *carRepository) Update(car *db.Car) error {
	query := `
		UPDATE cars SET
			brand = $2, model = $3, year = $4, price_per_day = $5, category = $6,
			transmission = $7, fuel_type = $8, seating_capacity = $9, location = $10,
			description = $11, image = $12, updated_at = $13
		WHERE id = $1`
	result, err := r.db.Exec(query,
		car.ID,
		car.Brand,
		car.Model,
		car.Year,
		car.PricePerDay,
		car.Category,
		car.Transmission,
		car.FuelType,
		car.SeatingCapacity,
		car.Location,
		car.Description,
		car.Image,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error updating car %d: %w", car.ID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFound("car not found")
	}
	return nil
}

func (r *carRepository) SetAvailability(id int, available bool) error {
	_, err := r.db.Exec(`UPDATE cars SET is_available = $2, updated_at = $3 WHERE id = $1`,
		id, available, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error setting availability for car %d: %w", id, err)
	}
	return nil
}

// SoftDelete clears the owner and delists the car. The row stays so existing
// bookings keep a valid reference.
func (r *carRepository) SoftDelete(id int) error {
	_, err := r.db.Exec(`UPDATE cars SET owner_id = NULL, is_available = FALSE, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error removing car %d: %w", id, err)
	}
	return nil
}

func (r *carRepository) CountByOwner(ownerID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM cars WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting cars for owner %d: %w", ownerID, err)
	}
	return count, nil
}
