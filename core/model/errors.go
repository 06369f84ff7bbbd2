package model

import "errors"

var (
	// ErrMissingID is returned when a record has no identifier.
	ErrMissingID = errors.New("missing id")
	// ErrInvalidCoordinates is returned for half-set or out of range coordinates.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidConfidence is returned when a confidence score is outside [0,1].
	ErrInvalidConfidence = errors.New("confidence out of range")
	// ErrInvalidFuel is returned when a fuel percentage is outside [0,100].
	ErrInvalidFuel = errors.New("fuel out of range")
)
