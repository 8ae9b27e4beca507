package model

import (
	"time"

	"github.com/google/uuid"
)

type (
	Currency       string
	PaymentMethod  string
	DonationStatus string
)

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyNGN Currency = "NGN"
)

const (
	PaymentMethodUnknown              PaymentMethod = "PAYMENT_METHOD_UNKNOWN"
	PaymentMethodPayPal               PaymentMethod = "PAYMENT_METHOD_PAYPAL"
	PaymentMethodZelle                PaymentMethod = "PAYMENT_METHOD_ZELLE"
	PaymentMethodNigerianBankTransfer PaymentMethod = "PAYMENT_METHOD_NIGERIAN_BANK_TRANSFER"
)

const (
	StatusPendingValidation DonationStatus = "PENDING_VALIDATION"
	StatusValidated         DonationStatus = "VALIDATED"
	StatusConfirmed         DonationStatus = "CONFIRMED"
	StatusFailed            DonationStatus = "FAILED"
)

// MaxSlipSize caps uploaded proof-of-payment files. Oversized files
// are rejected before any storage or network work happens.
const MaxSlipSize = 5 << 20 // 5MB

func ParseCurrency(s string) (Currency, bool) {
	switch Currency(s) {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyNGN:
		return Currency(s), true
	default:
		return "", false
	}
}

// DonationIntent is the amount+currency pair collected before a payment
// method is chosen. Amount is in minor units and must be positive.
type DonationIntent struct {
	ID        uuid.UUID
	Amount    int64
	Currency  Currency
	DonorName string
}

type Donation struct {
	// Unique identifier of the donation record.
	ID uuid.UUID
	// Amount in minor units of Currency.
	Amount   int64
	Currency Currency
	Method   PaymentMethod
	// Zelle confirmation code or bank transfer reference. Unique per
	// method across all donations.
	Reference   string
	SenderName  string
	SenderEmail string
	SenderPhone string
	// Metadata of the uploaded proof slip (bank transfer only).
	SlipFileName string
	SlipSize     int64
	Status       DonationStatus
	CreatedAt    time.Time
}

type ZelleSubmission struct {
	SenderEmail   string
	SenderPhone   string
	TransactionID string
	Amount        int64
	Currency      Currency
}

func (s ZelleSubmission) Validate() error {
	if s.SenderEmail == "" && s.SenderPhone == "" {
		return NewValidationError("either sender email or sender phone is required")
	}
	if s.SenderEmail != "" && s.SenderPhone != "" {
		return NewValidationError("sender email and sender phone are mutually exclusive")
	}
	if len(s.TransactionID) != ZelleTransactionIDLen {
		return NewValidationError("transaction id must be 9 characters")
	}
	if s.Amount <= 0 {
		return NewValidationError("amount must be positive")
	}
	return nil
}

type BankTransferSubmission struct {
	Reference  string
	SenderName string
	Amount     int64
	Currency   Currency
	Slip       *SlipFile
}

func (s BankTransferSubmission) Validate() error {
	if s.SenderName == "" {
		return NewValidationError("sender name is required")
	}
	if len(s.Reference) != BankReferenceLen {
		return NewValidationError("reference must be 10 digits")
	}
	if s.Amount <= 0 {
		return NewValidationError("amount must be positive")
	}
	if s.Slip == nil {
		return NewValidationError("payment slip is required")
	}
	return nil
}

const (
	ZelleTransactionIDLen = 9
	BankReferenceLen      = 10
)

// SlipFile is an uploaded proof-of-payment document.
type SlipFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

type ValidationResult struct {
	DonationID uuid.UUID
	Status     DonationStatus
}
