// Package common defines shared constants and sentinel errors used across
// client and server layers of PetKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Sync taxonomy. Every remote-originating failure is mapped to one of
	// these at the fetch-client boundary before it reaches the orchestrator.
	ErrTokenExpired = errors.New("change token expired")
	ErrZoneNotFound = errors.New("zone not found")
	ErrUnavailable  = errors.New("remote store unavailable")

	// Share acceptance errors.
	ErrShareRejected  = errors.New("share rejected by remote store")
	ErrInvalidShare   = errors.New("invalid share reference")
	ErrNoPendingShare = errors.New("no pending share reference")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
