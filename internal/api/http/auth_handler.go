package http

import (
	"net/http"

	"carshare-backend/internal/security"
)

// AuthHandler mints identities and issues bearer tokens. It stands in for
// the consensus substrate's caller authentication; the state-machine core
// only ever sees the identity strings it vouches for.
type AuthHandler struct {
	credentials  *security.CredentialStore
	tokenManager security.TokenManager
}

func NewAuthHandler(credentials *security.CredentialStore, tm security.TokenManager) *AuthHandler {
	return &AuthHandler{credentials: credentials, tokenManager: tm}
}

type mintIdentityRequest struct {
	Passphrase string `json:"passphrase"`
}

type tokenResponse struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

func (h *AuthHandler) MintIdentity(w http.ResponseWriter, r *http.Request) {
	var req mintIdentityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Passphrase == "" {
		respondBadRequest(w, "passphrase is required")
		return
	}

	identity, err := h.credentials.Mint(req.Passphrase)
	if err != nil {
		respondError(w, err)
		return
	}
	token, err := h.tokenManager.Generate(identity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Identity: identity, Token: token})
}

type issueTokenRequest struct {
	Identity   string `json:"identity"`
	Passphrase string `json:"passphrase"`
}

func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.credentials.Authenticate(req.Identity, req.Passphrase); err != nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	token, err := h.tokenManager.Generate(req.Identity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Identity: req.Identity, Token: token})
}
