// Package registry is the server side of the registration handshake.
// It accepts client public keys over POST /register and persists them
// through a ClientStore, handing back a stable client identity and a
// fresh token.
package registry

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// maxBodyBytes caps the registration request body. Public keys are a
// few hundred bytes of PEM; anything past this is not a registration.
const maxBodyBytes = 64 * 1024

// Handler serves the registration endpoint.
type Handler struct {
	clients driven.ClientStore
	now     func() time.Time
}

// NewHandler creates a registration handler backed by the given store.
func NewHandler(clients driven.ClientStore) (*Handler, error) {
	if clients == nil {
		return nil, fmt.Errorf("client store is required")
	}
	return &Handler{clients: clients, now: time.Now}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles POST /register. A malformed body or an invalid kid
// or public key yields 400; a storage fault yields 500. Success returns
// the acknowledgment the client-side registrar expects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req domain.RegistrationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if err := h.validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	now := h.now().UTC()
	client := domain.RegisteredClient{
		ClientID:     uuid.NewString(),
		Kid:          req.Kid,
		PublicKeyPEM: req.PublicKeyPEM,
		Label:        req.Label,
		Origin:       req.Origin,
		Token:        uuid.NewString(),
		IssuedAt:     now,
		UpdatedAt:    now,
	}

	// The upsert reports the row it wrote: a re-registered kid keeps
	// its original client_id, and the token is this request's, even
	// when another registration for the same kid races this one.
	stored, err := h.clients.Upsert(ctx, client)
	if err != nil {
		logger.Error("registry: storing client for kid %q: %v", req.Kid, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store registration"})
		return
	}

	logger.Info("registry: registered kid %q as client %s", stored.Kid, stored.ClientID)
	writeJSON(w, http.StatusOK, domain.RegistrationAck{
		ClientID: stored.ClientID,
		Kid:      stored.Kid,
		Token:    stored.Token,
		IssuedAt: stored.IssuedAt,
	})
}

func (h *Handler) validate(req domain.RegistrationRequest) error {
	if err := domain.ValidateKid(req.Kid); err != nil {
		return errors.New("invalid kid")
	}
	if err := validatePublicKeyPEM(req.PublicKeyPEM); err != nil {
		return err
	}
	return nil
}

// validatePublicKeyPEM checks that the submitted key is a PEM-encoded
// PKIX RSA public key. Anything else is rejected up front so the store
// only ever holds keys the server can later verify signatures with.
func validatePublicKeyPEM(pemData string) error {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return errors.New("public_key is not valid PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return errors.New("public_key is not a valid PKIX public key")
	}
	if _, ok := key.(*rsa.PublicKey); !ok {
		return errors.New("public_key must be an RSA key")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("registry: writing response: %v", err)
	}
}
