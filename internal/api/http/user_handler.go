package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"carshare-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type registerUserRequest struct {
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	LicenseClass string `json:"license_class"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req registerUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondBadRequest(w, "name is required")
		return
	}

	user, err := h.userSvc.Register(r.Context(), caller, service.RegisterUserInput{
		Name:         req.Name,
		NationalID:   req.NationalID,
		LicenseClass: req.LicenseClass,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

type updateLocationRequest struct {
	Location string `json:"location"`
}

func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	identity := mux.Vars(r)["identity"]
	var req updateLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userSvc.UpdateLocation(r.Context(), caller, identity, req.Location); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"identity": identity, "location": req.Location})
}

func (h *UserHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	location, err := h.userSvc.GetLocation(r.Context(), identity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"identity": identity, "location": location})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	user, err := h.userSvc.GetUser(r.Context(), identity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
