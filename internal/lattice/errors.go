package lattice

import "errors"

// Domain errors for lattice construction.
var (
	// ErrEmptySize indicates a lattice dimension of zero.
	ErrEmptySize = errors.New("lattice: rows and cols must be non-zero")

	// ErrZeroTemperature indicates a construction temperature of exactly zero.
	ErrZeroTemperature = errors.New("lattice: temperature must be non-zero")
)
