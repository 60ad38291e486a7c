package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrEngineUnavailable = fmt.Errorf("embedded database engine unavailable")
	ErrConnectionClosed  = fmt.Errorf("connection closed")
	ErrEntryNotFound     = fmt.Errorf("newsletter entry not found")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrInvalidFlag  = fmt.Errorf("invalid flag value")
)
