package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentaride/internal/entities"
	"rentaride/internal/service"
)

// CarHandler serves the public browse surface.
type CarHandler struct {
	Service *service.CarService
}

func NewCarHandler(svc *service.CarService) *CarHandler {
	return &CarHandler{Service: svc}
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Service.ListAvailableCars()
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cars": cars})
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
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
