package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/service"
)

type CarHandler struct {
	carSvc service.CarService
}

func NewCarHandler(carSvc service.CarService) *CarHandler {
	return &CarHandler{carSvc: carSvc}
}

func carID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

type addCarRequest struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	VehicleType  string `json:"vehicle_type"`
	Description  string `json:"description"`
	Capacity     int32  `json:"capacity"`
	PlateNumber  string `json:"plate_number"`
	LicenseClass string `json:"license_class"`
	Location     string `json:"location"`
	Condition    string `json:"condition"`
	Insured      bool   `json:"insured"`
}

func (h *CarHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req addCarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PlateNumber == "" {
		respondBadRequest(w, "plate_number is required")
		return
	}

	car, err := h.carSvc.AddCar(r.Context(), caller, service.AddCarInput{
		Brand:        req.Brand,
		Model:        req.Model,
		VehicleType:  req.VehicleType,
		Description:  req.Description,
		Capacity:     req.Capacity,
		PlateNumber:  req.PlateNumber,
		LicenseClass: req.LicenseClass,
		Location:     req.Location,
		Condition:    req.Condition,
		Insured:      req.Insured,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

type editCarRequest struct {
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Condition   *string `json:"condition"`
	Insured     *bool   `json:"insured"`
}

func (h *CarHandler) EditCar(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	var req editCarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	car, err := h.carSvc.EditCar(r.Context(), caller, id, service.EditCarInput{
		Description: req.Description,
		Location:    req.Location,
		Condition:   req.Condition,
		Insured:     req.Insured,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (h *CarHandler) RemoveCar(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}

	if err := h.carSvc.RemoveCar(r.Context(), caller, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"car_state": string(domain.CarStateRemoved)})
}

type updateStateRequest struct {
	CarState string `json:"car_state"`
}

func (h *CarHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	var req updateStateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carSvc.UpdateStatus(r.Context(), caller, id, domain.CarState(req.CarState)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"car_state": req.CarState})
}

type updateCarLocationRequest struct {
	Location string `json:"location"`
}

func (h *CarHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	var req updateCarLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carSvc.UpdateCarLocation(r.Context(), caller, id, req.Location); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"location": req.Location})
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	car, err := h.carSvc.GetCar(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (h *CarHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	location, err := h.carSvc.GetCarLocation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"location": location})
}

func (h *CarHandler) GetRentalStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	status, err := h.carSvc.CheckRentalStatus(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"rental_status": string(status)})
}

func (h *CarHandler) ListMyCars(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	cars, err := h.carSvc.ListByOwner(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cars": cars})
}
