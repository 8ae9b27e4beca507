package converter

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

// validatedDonationRecord is the wire form on the donation.validated
// topic. JSON until a shared schema module exists.
type validatedDonationRecord struct {
	EventUUID    string `json:"event_uuid"`
	DonationUUID string `json:"donation_uuid"`
	Method       string `json:"payment_method"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Reference    string `json:"reference"`
}

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) ValidatedDonationToPayload(m model.ValidatedDonation) ([]byte, error) {
	payload, err := json.Marshal(validatedDonationRecord{
		EventUUID:    m.EventID.String(),
		DonationUUID: m.DonationID.String(),
		Method:       string(m.Method),
		Amount:       m.Amount,
		Currency:     string(m.Currency),
		Reference:    m.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validated donation: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) ValidatedDonationToModel(data []byte) (model.ValidatedDonation, error) {
	var rec validatedDonationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.ValidatedDonation{}, fmt.Errorf("failed to unmarshal validated donation: %w", err)
	}

	eventID, err := uuid.Parse(rec.EventUUID)
	if err != nil {
		return model.ValidatedDonation{}, fmt.Errorf("invalid event uuid %q: %w", rec.EventUUID, err)
	}

	donationID, err := uuid.Parse(rec.DonationUUID)
	if err != nil {
		return model.ValidatedDonation{}, fmt.Errorf("invalid donation uuid %q: %w", rec.DonationUUID, err)
	}

	return model.ValidatedDonation{
		EventID:    eventID,
		DonationID: donationID,
		Method:     model.PaymentMethod(rec.Method),
		Amount:     rec.Amount,
		Currency:   model.Currency(rec.Currency),
		Reference:  rec.Reference,
	}, nil
}
