package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentaride/internal/auth"
	"rentaride/internal/entities"
	"rentaride/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CheckAvailability lists the cars at a location that are free for the whole
// requested range. Public endpoint.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	pickup, ret, ok := parseDateRange(w, req.PickupDate, req.ReturnDate)
	if !ok {
		return
	}

	cars, err := h.Service.SearchAvailableCars(req.Location, pickup, ret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"availableCars": cars})
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	pickup, ret, okDates := parseDateRange(w, req.PickupDate, req.ReturnDate)
	if !okDates {
		return
	}

	result, err := h.Service.CreateBooking(user, req.Car, pickup, ret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{
		"message":  "Booking Created",
		"code":     result.Code,
		"price":    result.Price,
		"noOfDays": result.NoOfDays,
	})
}

func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	bookings, err := h.Service.ListForRenter(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"bookings": bookings})
}

func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	bookings, err := h.Service.ListForOwner(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"bookings": bookings})
}

func (h *BookingHandler) ChangeBookingStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	if err := h.Service.ChangeStatus(user, req.BookingID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"message": "Status Updated"})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeInvalid(w, "Invalid ID")
		return
	}
	booking, err := h.Service.GetBooking(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"data": entities.NewBookingRecord(booking)})
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeInvalid(w, "Invalid ID")
		return
	}
	var req entities.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	pickup, ret, ok := parseDateRange(w, req.PickupDate, req.ReturnDate)
	if !ok {
		return
	}

	booking, err := h.Service.EditBooking(id, pickup, ret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"data": entities.NewBookingRecord(booking)})
}

func parseDateRange(w http.ResponseWriter, pickupDate, returnDate string) (time.Time, time.Time, bool) {
	pickup, err := parseDate(pickupDate)
	if err != nil {
		writeInvalid(w, "Invalid pickupDate")
		return time.Time{}, time.Time{}, false
	}
	ret, err := parseDate(returnDate)
	if err != nil {
		writeInvalid(w, "Invalid returnDate")
		return time.Time{}, time.Time{}, false
	}
	if ret.Before(pickup) {
		writeInvalid(w, "returnDate must not be before pickupDate")
		return time.Time{}, time.Time{}, false
	}
	return pickup, ret, true
}
