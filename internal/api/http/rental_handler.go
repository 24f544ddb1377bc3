package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshare-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.rentalSvc.List)
}

func (h *RentalHandler) Delist(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.rentalSvc.Delist)
}

func (h *RentalHandler) CancelOffer(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.rentalSvc.CancelOffer)
}

func (h *RentalHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.rentalSvc.StartTrip)
}

func (h *RentalHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.rentalSvc.EndTrip)
}

// statusChange handles the engine operations that take only the caller
// and the car and respond with the car's new state.
func (h *RentalHandler) statusChange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller string, carID int64) error) {
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

	if err := op(r.Context(), caller, id); err != nil {
		respondError(w, err)
		return
	}
	car, err := h.rentalSvc.GetCarDetails(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"rental_status": string(car.RentalStatus)})
}

type makeOfferRequest struct {
	Rate     uint64 `json:"rate"`
	Duration uint64 `json:"duration"`
}

func (h *RentalHandler) MakeOffer(w http.ResponseWriter, r *http.Request) {
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
	var req makeOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.rentalSvc.MakeOffer(r.Context(), caller, id, req.Rate, req.Duration)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, offer)
}

func (h *RentalHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	h.resolveOffer(w, r, h.rentalSvc.AcceptOffer)
}

func (h *RentalHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	h.resolveOffer(w, r, h.rentalSvc.RejectOffer)
}

func (h *RentalHandler) resolveOffer(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller string, carID int64, renter string) error) {
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
	renter := mux.Vars(r)["renter"]

	if err := op(r.Context(), caller, id, renter); err != nil {
		respondError(w, err)
		return
	}
	car, err := h.rentalSvc.GetCarDetails(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"rental_status": string(car.RentalStatus)})
}

func (h *RentalHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondBadRequest(w, "invalid offer index")
		return
	}

	offer, err := h.rentalSvc.GetOfferDetails(r.Context(), id, index)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

func (h *RentalHandler) GetListingInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(r)
	if !ok {
		respondBadRequest(w, "invalid car id")
		return
	}
	info, err := h.rentalSvc.GetListingInfo(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
