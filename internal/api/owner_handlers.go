package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentaride/internal/auth"
	"rentaride/internal/entities"
	"rentaride/internal/service"
)

// OwnerHandler serves the fleet management and dashboard surface.
type OwnerHandler struct {
	Service *service.CarService
}

func NewOwnerHandler(svc *service.CarService) *OwnerHandler {
	return &OwnerHandler{Service: svc}
}

func (h *OwnerHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.Service.ChangeRoleToOwner(user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"message": "Now you can list cars"})
}

func (h *OwnerHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	car, err := h.Service.AddCar(user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"message": "Car Added", "car": entities.NewCarResponse(car)})
}

func (h *OwnerHandler) GetOwnerCars(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	cars, err := h.Service.ListOwnerCars(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cars": cars})
}

func (h *OwnerHandler) ToggleCar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		CarID int `json:"carId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	available, err := h.Service.ToggleAvailability(user, req.CarID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"message": "Availability Toggled", "isAvailable": available})
}

func (h *OwnerHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		CarID int `json:"carId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	if err := h.Service.DeleteCar(user, req.CarID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"message": "Car Removed"})
}

func (h *OwnerHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeInvalid(w, "Invalid ID")
		return
	}
	car, err := h.Service.GetCar(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"car": entities.NewCarResponse(car)})
}

func (h *OwnerHandler) EditCar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeInvalid(w, "Invalid ID")
		return
	}
	var req entities.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "Invalid request")
		return
	}
	car, err := h.Service.EditCar(user, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"car": entities.NewCarResponse(car)})
}

func (h *OwnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	data, err := h.Service.Dashboard(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"dashboardData": data})
}
