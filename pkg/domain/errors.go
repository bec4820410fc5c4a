package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrInvalidReference is returned when a record points at a parent that does not exist
	ErrInvalidReference = errors.New("invalid reference")
	// ErrStorage is returned when the local store fails or is unavailable
	ErrStorage = errors.New("storage error")
)

// Remote mirror errors
var (
	// ErrRemoteUnavailable marks environment-class mirror failures: the mirror is
	// unreachable, closed, timed out or not provisioned. Callers treat the local
	// write as authoritative and carry on.
	ErrRemoteUnavailable = errors.New("remote mirror unavailable")
	// ErrRemote marks any other mirror failure (permission, malformed write, quota).
	ErrRemote = errors.New("remote mirror error")
)

// Sync errors
var (
	// ErrMissingParent is returned when a replicated transaction arrives before its person.
	ErrMissingParent = errors.New("parent person not present")
	// ErrNotBound is returned when a session operation needs an identity and none is bound.
	ErrNotBound = errors.New("no identity bound")
	// ErrUnauthorized is returned when an identity token cannot be verified.
	ErrUnauthorized = errors.New("unauthorized")
)
