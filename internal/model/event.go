package model

import "github.com/google/uuid"

// ValidatedDonation is published to the donation.validated topic once a
// submission passes validation and is persisted.
type ValidatedDonation struct {
	EventID    uuid.UUID
	DonationID uuid.UUID
	Method     PaymentMethod
	Amount     int64
	Currency   Currency
	Reference  string
}

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING"
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED"
	ConfirmationFailed    ConfirmationStatus = "FAILED"
)
