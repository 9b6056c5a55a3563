package provider

import "errors"

var (
	// ErrAuth means no usable token could be obtained, or the provider
	// rejected our credentials. Fatal for the current operation.
	ErrAuth = errors.New("provider auth failed")

	// ErrNotFound maps an upstream 404 to "no such product".
	ErrNotFound = errors.New("product not found")

	// ErrTransient covers any other upstream failure. Surfaced to the
	// caller; only rate limiting is retried internally.
	ErrTransient = errors.New("provider unavailable")
)
