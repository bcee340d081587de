package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Registration Errors.

	// ErrKeyGeneration indicates the keypair could not be generated or loaded.
	// Nothing is persisted when this occurs.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrNetwork indicates the registration endpoint was unreachable,
	// timed out, or returned a non-success status.
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse indicates the server answered with a success
	// status but the body could not be parsed into a registration record.
	// Distinct from ErrNetwork so operators can tell "server unreachable"
	// from "server misbehaving".
	ErrMalformedResponse = errors.New("malformed server response")

	// ErrStorage indicates local persistence failed after a successful
	// network round trip. The server holds a public key the local store
	// has no record of, so this must never be swallowed.
	ErrStorage = errors.New("storage error")

	// Search Errors.

	// ErrProvider indicates the external search provider call failed.
	ErrProvider = errors.New("search provider error")

	// ErrAuthRequired indicates no API key was supplied for the provider.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the provider rejected the API key.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider's usage limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
