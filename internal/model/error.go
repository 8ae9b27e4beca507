package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")            // 400
	ErrDonationNotFound   = errors.New("donation not found")          // 404
	ErrSubscriberNotFound = errors.New("subscriber not found")        // 404
	ErrSessionNotFound    = errors.New("payment session not found")   // 404
	ErrSessionConflict    = errors.New("payment session conflict")    // 409
	ErrDuplicateReference = errors.New("duplicate reference")         // 409
	ErrDuplicateEmail     = errors.New("email already subscribed")    // 409
	ErrSlipTooLarge       = errors.New("slip file too large")         // 413
	ErrBadGateway         = errors.New("bad gateway")                 // 502
	ErrServiceUnavailable = errors.New("service unavailable")         // 503
	ErrUnreachable        = errors.New("validation host unreachable") // transport failure, never sent
	ErrConfig             = errors.New("missing configuration")
	ErrPopupBlocked       = errors.New("payment window blocked")
	ErrUnknownStatus      = errors.New("unknown status")
)

func NewValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// DuplicateWireCode is the code the deployed front-end matches on for
// duplicate-reference responses. It predates the Postgres storage and
// is kept for wire compatibility.
const DuplicateWireCode = 11000
