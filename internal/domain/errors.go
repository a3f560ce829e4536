package domain

import "errors"

// Error kinds returned by the core. Every public operation fails with exactly
// one of these; callers match with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrInvalidGeometry  = errors.New("invalid cover geometry")
	ErrAlreadyConfirmed = errors.New("order already confirmed")
	ErrNotFound         = errors.New("not found")
	ErrRepository       = errors.New("repository failure")
)
