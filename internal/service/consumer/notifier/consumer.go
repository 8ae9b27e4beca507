package ntfconsumer

import (
	"context"
	"fmt"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

type ValidatedDonationConverter interface {
	ValidatedDonationToModel(data []byte) (model.ValidatedDonation, error)
}

type DonationNotifier interface {
	NotifyDonationValidated(ctx context.Context, event model.ValidatedDonation) error
}

type ntfConsumer struct {
	consumer kafka.Consumer
	conv     ValidatedDonationConverter
	svc      DonationNotifier
}

func NewNotifierConsumer(
	consumer kafka.Consumer,
	conv ValidatedDonationConverter,
	svc DonationNotifier,
) *ntfConsumer {
	return &ntfConsumer{
		consumer: consumer,
		conv:     conv,
		svc:      svc,
	}
}

func (s *ntfConsumer) RunDonationValidatedConsume(ctx context.Context) error {
	logger.Info(ctx, "Starting donation validated consumer")

	if err := s.consumer.Consume(ctx, s.donationValidatedHandler); err != nil {
		logger.Error(ctx, "Consume from donation.validated topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *ntfConsumer) donationValidatedHandler(ctx context.Context, msg kafka.Message) error {
	event, err := s.conv.ValidatedDonationToModel(msg.Value)
	if err != nil {
		logger.Error(ctx, "Failed to decode ValidatedDonationRecord", logger.ErrorF(err))
		return fmt.Errorf("converter validated_donation_to_model error: %w", err)
	}

	if err := s.svc.NotifyDonationValidated(ctx, event); err != nil {
		logger.Error(ctx, "Failed to notify about validated donation", logger.ErrorF(err))
		return err
	}

	return nil
}
