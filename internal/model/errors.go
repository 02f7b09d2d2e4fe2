package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrAuthRequired is returned by remote operations that need (new) credentials,
	// it can be recovered by an interactive login or registration.
	ErrAuthRequired = errors.New("authentication required")
	// ErrCancelled is returned when the user declines an interactive flow.
	ErrCancelled = errors.New("cancelled")
	// ErrExhausted is returned when all the attempts of an operation have been used.
	ErrExhausted = errors.New("attempts exhausted")
	// ErrSuperseded is returned to a pending interactive request replaced by a newer one.
	ErrSuperseded = errors.New("superseded")
	// ErrPlusRequired is returned when VRChat Print is used without a VRChat Plus subscription.
	ErrPlusRequired = errors.New("vrchat plus subscription required")
)
