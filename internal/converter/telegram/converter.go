package converter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	rootconverter "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

func BuildDonationValidated(event model.ValidatedDonation) (string, error) {
	if event.DonationID == uuid.Nil {
		return "", errors.New("empty donation id")
	}

	return fmt.Sprintf(
		"*New donation validated*\n"+
			"Amount: %s %s\n"+
			"Method: %s\n"+
			"Reference: `%s`\n"+
			"Donation: `%s`",
		rootconverter.FormatMinor(event.Amount),
		event.Currency,
		methodLabel(event.Method),
		event.Reference,
		event.DonationID,
	), nil
}

func methodLabel(m model.PaymentMethod) string {
	switch m {
	case model.PaymentMethodPayPal:
		return "PayPal"
	case model.PaymentMethodZelle:
		return "Zelle"
	case model.PaymentMethodNigerianBankTransfer:
		return "Nigerian bank transfer"
	default:
		return string(m)
	}
}
