package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshare-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
	rentalSvc service.RentalService
}

func NewLedgerHandler(ledgerSvc service.LedgerService, rentalSvc service.RentalService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc, rentalSvc: rentalSvc}
}

// topUpRequest carries the external amount as a decimal string: observed
// top-ups are of magnitude 1e18, beyond JSON number precision.
type topUpRequest struct {
	ExternalAmount string `json:"external_amount"`
}

type balanceResponse struct {
	Identity string `json:"identity"`
	Balance  uint64 `json:"balance"`
}

func (h *LedgerHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req topUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	externalAmount, err := strconv.ParseUint(req.ExternalAmount, 10, 64)
	if err != nil {
		respondBadRequest(w, "external_amount must be a non-negative decimal string")
		return
	}

	minted, err := h.ledgerSvc.Credit(r.Context(), caller, externalAmount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]uint64{"minted": minted})
}

func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	balance, err := h.ledgerSvc.BalanceOf(r.Context(), identity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Identity: identity, Balance: balance})
}

// Withdraw drains the commission pool to the administrator. The rental
// engine fronts the ledger here, as it does for all settlement flows.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerIdentity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	amount, err := h.rentalSvc.Withdraw(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]uint64{"withdrawn": amount})
}
