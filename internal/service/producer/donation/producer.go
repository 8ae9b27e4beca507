package donproducer

import (
	"context"
	"fmt"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka"
)

type Converter interface {
	ValidatedDonationToPayload(m model.ValidatedDonation) ([]byte, error)
}

type producer struct {
	producer kafka.Producer
	conv     Converter
}

func NewDonationProducer(p kafka.Producer, conv Converter) *producer {
	return &producer{
		producer: p,
		conv:     conv,
	}
}

func (p *producer) SendDonationValidated(ctx context.Context, event model.ValidatedDonation) error {
	payload, err := p.conv.ValidatedDonationToPayload(event)
	if err != nil {
		return fmt.Errorf("converter validated_donation_to_payload error: %w", err)
	}

	if err := p.producer.Send(ctx, event.DonationID[:], payload); err != nil {
		return fmt.Errorf("produce to donation.validated topic error: %w", err)
	}

	return nil
}
