package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every operation of the core onto the /v1 HTTP surface.
// Identity minting and token issuance are the only public routes; the
// rest require an authenticated identity.
func NewRouter(
	auth *AuthMiddleware,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	ledgerHandler *LedgerHandler,
	carHandler *CarHandler,
	rentalHandler *RentalHandler,
) *mux.Router {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public: substrate authentication
	v1.HandleFunc("/identities", authHandler.MintIdentity).Methods(http.MethodPost)
	v1.HandleFunc("/auth/token", authHandler.IssueToken).Methods(http.MethodPost)

	// Everything else carries a bearer token
	authed := v1.NewRoute().Subrouter()
	authed.Use(auth.Handler)

	// User registry
	authed.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	authed.HandleFunc("/users/{identity}", userHandler.GetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/users/{identity}/location", userHandler.UpdateLocation).Methods(http.MethodPut)
	authed.HandleFunc("/users/{identity}/location", userHandler.GetLocation).Methods(http.MethodGet)

	// Token ledger
	authed.HandleFunc("/ledger/topup", ledgerHandler.TopUp).Methods(http.MethodPost)
	authed.HandleFunc("/ledger/balances/{identity}", ledgerHandler.GetBalance).Methods(http.MethodGet)
	authed.HandleFunc("/ledger/withdraw", ledgerHandler.Withdraw).Methods(http.MethodPost)

	// Car registry
	authed.HandleFunc("/cars", carHandler.AddCar).Methods(http.MethodPost)
	authed.HandleFunc("/cars", carHandler.ListMyCars).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id}", carHandler.GetCar).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id}", carHandler.EditCar).Methods(http.MethodPatch)
	authed.HandleFunc("/cars/{id}", carHandler.RemoveCar).Methods(http.MethodDelete)
	authed.HandleFunc("/cars/{id}/state", carHandler.UpdateState).Methods(http.MethodPut)
	authed.HandleFunc("/cars/{id}/location", carHandler.UpdateLocation).Methods(http.MethodPut)
	authed.HandleFunc("/cars/{id}/location", carHandler.GetLocation).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id}/rental-status", carHandler.GetRentalStatus).Methods(http.MethodGet)

	// Rental engine
	authed.HandleFunc("/cars/{id}/list", rentalHandler.List).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/delist", rentalHandler.Delist).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/listing", rentalHandler.GetListingInfo).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id}/offers", rentalHandler.MakeOffer).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/offers/{index:[0-9]+}", rentalHandler.GetOffer).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id}/offers/{renter}/accept", rentalHandler.AcceptOffer).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/offers/{renter}/reject", rentalHandler.RejectOffer).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/cancel", rentalHandler.CancelOffer).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/start-trip", rentalHandler.StartTrip).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id}/end-trip", rentalHandler.EndTrip).Methods(http.MethodPost)

	return r
}
