package discovery

import "errors"

// Package-level sentinel errors for discovery operations.
var (
	// ErrServiceNotFound is returned when a requested service is not found.
	ErrServiceNotFound = errors.New("discovery: service not found")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("discovery: operation timed out")

	// ErrNoAddresses is returned when a resolved service carries no IP addresses.
	ErrNoAddresses = errors.New("discovery: service has no addresses")
)
