package contracts

import "errors"

// Error taxonomy. The capture pass branches on the two recoverable errors:
// a quote or pair that fails with one of these is skipped and the pass
// continues. Persistence and configuration failures are plain wrapped errors
// and abort their caller.
var (
	// ErrQuoteUnavailable marks an instrument the provider cannot quote.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrInvalidQuote marks a quote unusable for spread arithmetic:
	// non-positive price in a denominator or non-positive days to expiration.
	ErrInvalidQuote = errors.New("invalid quote")
)
