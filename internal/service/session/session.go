package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

// Validator accepts collected proof-of-payment and resolves it. The
// in-process validation service and the HTTP client to the remote
// backend both implement it.
type Validator interface {
	ValidateZelle(ctx context.Context, sub model.ZelleSubmission) (*model.ValidationResult, error)
	ValidateBankTransfer(ctx context.Context, sub model.BankTransferSubmission) (*model.ValidationResult, error)
}

// Session is the part of a payment-method state machine every method
// shares. Method-specific operations live on the concrete types.
type Session interface {
	Method() model.PaymentMethod
	Dialog() model.DialogState
	CloseDialog()
	Close()
}

const (
	duplicateReferenceMessage = "This reference has already been used for a donation. " +
		"Please check the number on your deposit slip and enter it again. " +
		"If you believe this is a mistake, contact support@claudygod.org."

	slipTooLargeMessage = "The payment slip must be a PDF no larger than 5MB. " +
		"Please upload a smaller file."

	missingPayPalConfigMessage = "PayPal donations are not configured. " +
		"Please choose another payment method or contact support@claudygod.org."

	popupBlockedMessage = "The PayPal window could not be opened. " +
		"Please allow popups for this site and try again."

	popupClosedMessage = "The PayPal window was closed before the donation completed. " +
		"You can try again whenever you are ready."

	successMessage = "Thank you! Your donation has been validated."
)

func connectivityMessage(err error) string {
	return fmt.Sprintf("We could not reach the validation service: %v. "+
		"Please check your internet connection, disable any VPN or firewall "+
		"blocking the request, and try again.", err)
}

// dialogForError classifies a submission failure into the blocking
// error dialog shown to the donor. Every branch keeps a manual retry
// affordance; nothing here retries on its own.
func dialogForError(err error) model.DialogState {
	var msg string
	switch {
	case errors.Is(err, model.ErrDuplicateReference):
		msg = duplicateReferenceMessage
	case errors.Is(err, model.ErrUnreachable):
		msg = connectivityMessage(err)
	case errors.Is(err, model.ErrSlipTooLarge):
		msg = slipTooLargeMessage
	default:
		// Server validation failures surface verbatim.
		msg = err.Error()
	}

	return model.DialogState{
		Kind:      model.DialogError,
		Message:   msg,
		CanRetry:  true,
		Dismissal: true,
	}
}

func processingDialog() model.DialogState {
	return model.DialogState{Kind: model.DialogProcessing}
}

func successDialog() model.DialogState {
	return model.DialogState{
		Kind:    model.DialogSuccess,
		Message: successMessage,
	}
}

func noDialog() model.DialogState {
	return model.DialogState{Kind: model.DialogNone}
}
