package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrUnauthorized is matched by any upstream 401 or 403 response. It is the
	// only status that tears down the session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is matched by an upstream 404 response.
	ErrNotFound = errors.New("not found")
	// ErrTransport covers network failures and undecodable response bodies.
	ErrTransport = errors.New("transport failure")

	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("not the owner of this post")
)
