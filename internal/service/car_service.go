package service

import (
	"database/sql"

	"rentaride/internal/auth"
	"rentaride/internal/db"
	"rentaride/internal/entities"
	"rentaride/internal/errors"
	"rentaride/internal/repository"
)

const recentBookingsOnDashboard = 3

type CarService struct {
	Cars     repository.CarRepository
	Users    repository.UserRepository
	Bookings repository.BookingRepository
}

func NewCarService(cars repository.CarRepository, users repository.UserRepository,
	bookings repository.BookingRepository) *CarService {
	return &CarService{Cars: cars, Users: users, Bookings: bookings}
}

// ChangeRoleToOwner upgrades a renter so they can list cars.
func (s *CarService) ChangeRoleToOwner(userID int) error {
	return s.Users.UpdateRole(userID, auth.RoleOwner)
}

func (s *CarService) AddCar(owner *db.User, req entities.CarRequest) (*db.Car, error) {
	if !auth.IsOwnerRole(owner) {
		return nil, errors.Forbidden("only owners can list cars")
	}
	if req.Brand == "" || req.Model == "" || req.Location == "" {
		return nil, errors.Invalid("brand, model and location are required")
	}
	if req.PricePerDay <= 0 {
		return nil, errors.Invalid("pricePerDay must be positive")
	}

	car := &db.Car{
		OwnerID:         sql.NullInt64{Int64: int64(owner.ID), Valid: true},
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		PricePerDay:     req.PricePerDay,
		Category:        req.Category,
		Transmission:    req.Transmission,
		FuelType:        req.FuelType,
		SeatingCapacity: req.SeatingCapacity,
		Location:        req.Location,
		Description:     req.Description,
		Image:           req.Image,
		IsAvailable:     true,
	}
	if err := s.Cars.Create(car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *CarService) ListOwnerCars(ownerID int) ([]entities.CarResponse, error) {
	cars, err := s.Cars.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return toCarResponses(cars), nil
}

// ListAvailableCars is the public browse listing.
func (s *CarService) ListAvailableCars() ([]entities.CarResponse, error) {
	cars, err := s.Cars.ListAvailable()
	if err != nil {
		return nil, err
	}
	return toCarResponses(cars), nil
}

func (s *CarService) GetCar(id int) (*db.Car, error) {
	return s.Cars.GetByID(id)
}

func (s *CarService) EditCar(caller *db.User, id int, req entities.CarRequest) (*db.Car, error) {
	car, err := s.Cars.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanManageCar(caller, car) {
		return nil, errors.Forbidden("unauthorized")
	}

	car.Brand = req.Brand
	car.Model = req.Model
	car.Year = req.Year
	car.PricePerDay = req.PricePerDay
	car.Category = req.Category
	car.Transmission = req.Transmission
	car.FuelType = req.FuelType
	car.SeatingCapacity = req.SeatingCapacity
	car.Location = req.Location
	car.Description = req.Description
	if req.Image != "" {
		car.Image = req.Image
	}
	if err := s.Cars.Update(car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *CarService) ToggleAvailability(caller *db.User, id int) (bool, error) {
	car, err := s.Cars.GetByID(id)
	if err != nil {
		return false, err
	}
	if !auth.CanManageCar(caller, car) {
		return false, errors.Forbidden("unauthorized")
	}
	if err := s.Cars.SetAvailability(id, !car.IsAvailable); err != nil {
		return false, err
	}
	return !car.IsAvailable, nil
}

// DeleteCar soft-deletes: the owner is cleared and the car delisted, but the
// record stays for the bookings that reference it.
func (s *CarService) DeleteCar(caller *db.User, id int) error {
	car, err := s.Cars.GetByID(id)
	if err != nil {
		return err
	}
	if !auth.CanManageCar(caller, car) {
		return errors.Forbidden("unauthorized")
	}
	return s.Cars.SoftDelete(id)
}

// Dashboard aggregates the owner's fleet and booking numbers. Revenue is the
// sum of price over confirmed bookings.
func (s *CarService) Dashboard(caller *db.User) (*entities.DashboardData, error) {
	if !auth.IsOwnerRole(caller) {
		return nil, errors.Forbidden("unauthorized")
	}

	totalCars, err := s.Cars.CountByOwner(caller.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Bookings.OwnerStats(caller.ID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.ListByOwner(caller.ID)
	if err != nil {
		return nil, err
	}
	recent := bookings
	if len(recent) > recentBookingsOnDashboard {
		recent = recent[:recentBookingsOnDashboard]
	}

	return &entities.DashboardData{
		TotalCars:         totalCars,
		TotalBookings:     stats.TotalBookings,
		PendingBookings:   stats.PendingBookings,
		CompletedBookings: stats.ConfirmedBookings,
		RecentBookings:    recent,
		MonthlyRevenue:    stats.ConfirmedRevenue,
	}, nil
}

func toCarResponses(cars []db.Car) []entities.CarResponse {
	responses := make([]entities.CarResponse, 0, len(cars))
	for i := range cars {
		responses = append(responses, entities.NewCarResponse(&cars[i]))
	}
	return responses
}
