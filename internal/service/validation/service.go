package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

type DonationRepository interface {
	Create(ctx context.Context, don *model.Donation) (uuid.UUID, error)
	DonationByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.DonationStatus) error
}

type ValidatedDonationSender interface {
	SendDonationValidated(ctx context.Context, event model.ValidatedDonation) error
}

// ConfirmationWatcher picks a freshly validated donation up and drives
// it towards a confirmed or failed status.
type ConfirmationWatcher interface {
	Watch(ctx context.Context, donationID uuid.UUID)
}

type service struct {
	repo           DonationRepository
	sender         ValidatedDonationSender
	watcher        ConfirmationWatcher
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewValidationService(
	repository DonationRepository,
	sender ValidatedDonationSender,
	watcher ConfirmationWatcher,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repository,
		sender:         sender,
		watcher:        watcher,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (svc *service) ValidateZelle(
	ctx context.Context,
	sub model.ZelleSubmission,
) (*model.ValidationResult, error) {
	const op string = "validation.service.ValidateZelle"
	log := logger.With(
		logger.String("transaction_id", sub.TransactionID),
		logger.String("currency", string(sub.Currency)),
	)

	if err := sub.Validate(); err != nil {
		log.Error(ctx, "wrong params", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer wdbCancel()

	donationID, err := svc.repo.Create(wdbCtx, &model.Donation{
		Amount:      sub.Amount,
		Currency:    sub.Currency,
		Method:      model.PaymentMethodZelle,
		Reference:   sub.TransactionID,
		SenderEmail: sub.SenderEmail,
		SenderPhone: sub.SenderPhone,
		Status:      model.StatusValidated,
	})
	if err != nil {
		log.Error(ctx, "repository create donation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc.publish(ctx, donationID, model.PaymentMethodZelle, sub.Amount, sub.Currency, sub.TransactionID)
	svc.watch(ctx, donationID)

	return &model.ValidationResult{
		DonationID: donationID,
		Status:     model.StatusValidated,
	}, nil
}

func (svc *service) ValidateBankTransfer(
	ctx context.Context,
	sub model.BankTransferSubmission,
) (*model.ValidationResult, error) {
	const op string = "validation.service.ValidateBankTransfer"
	log := logger.With(
		logger.String("reference", sub.Reference),
		logger.String("currency", string(sub.Currency)),
	)

	if sub.Slip != nil && sub.Slip.Size > model.MaxSlipSize {
		log.Error(ctx, "slip too large", logger.Int64("slip_size", sub.Slip.Size))
		return nil, fmt.Errorf("%s: %w", op, model.ErrSlipTooLarge)
	}

	if err := sub.Validate(); err != nil {
		log.Error(ctx, "wrong params", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer wdbCancel()

	donationID, err := svc.repo.Create(wdbCtx, &model.Donation{
		Amount:       sub.Amount,
		Currency:     sub.Currency,
		Method:       model.PaymentMethodNigerianBankTransfer,
		Reference:    sub.Reference,
		SenderName:   sub.SenderName,
		SlipFileName: sub.Slip.Name,
		SlipSize:     sub.Slip.Size,
		Status:       model.StatusValidated,
	})
	if err != nil {
		log.Error(ctx, "repository create donation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc.publish(ctx, donationID, model.PaymentMethodNigerianBankTransfer, sub.Amount, sub.Currency, sub.Reference)
	svc.watch(ctx, donationID)

	return &model.ValidationResult{
		DonationID: donationID,
		Status:     model.StatusValidated,
	}, nil
}

func (svc *service) DonationByID(ctx context.Context, donationID uuid.UUID) (*model.Donation, error) {
	const op string = "validation.service.DonationByID"

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	don, err := svc.repo.DonationByID(ctx, donationID)
	if err != nil {
		logger.Error(ctx, "repository donation by id",
			logger.String("donation_id", donationID.String()),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return don, nil
}

func (svc *service) UpdateStatus(ctx context.Context, donationID uuid.UUID, status model.DonationStatus) error {
	const op string = "validation.service.UpdateStatus"

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	if err := svc.repo.UpdateStatus(ctx, donationID, status); err != nil {
		logger.Error(ctx, "repository update status",
			logger.String("donation_id", donationID.String()),
			logger.String("status", string(status)),
			logger.ErrorF(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// watch outlives the request: the confirmation timers keep running
// after the submission response went out.
func (svc *service) watch(ctx context.Context, donationID uuid.UUID) {
	if svc.watcher == nil {
		return
	}
	svc.watcher.Watch(context.WithoutCancel(ctx), donationID)
}

// publish is best effort: the donation is already validated and stored,
// a broken broker must not fail the user's submission.
func (svc *service) publish(
	ctx context.Context,
	donationID uuid.UUID,
	method model.PaymentMethod,
	amount int64,
	currency model.Currency,
	reference string,
) {
	if svc.sender == nil {
		return
	}

	err := svc.sender.SendDonationValidated(ctx, model.ValidatedDonation{
		EventID:    uuid.New(),
		DonationID: donationID,
		Method:     method,
		Amount:     amount,
		Currency:   currency,
		Reference:  reference,
	})
	if err != nil {
		logger.Error(ctx, "send donation validated event",
			logger.String("donation_id", donationID.String()),
			logger.ErrorF(err),
		)
	}
}
