package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

// presets are the five suggested amounts per currency, minor units.
var presets = map[model.Currency][5]int64{
	model.CurrencyUSD: {1000, 2500, 5000, 10000, 25000},
	model.CurrencyEUR: {1000, 2500, 5000, 10000, 25000},
	model.CurrencyGBP: {1000, 2500, 5000, 10000, 25000},
	model.CurrencyNGN: {100000, 500000, 1000000, 2500000, 5000000},
}

// FlowState is the orchestrator's snapshot: the entry form fields plus
// whether the flow sits in checkout mode.
type FlowState struct {
	AmountInput string
	DonorName   string
	Currency    model.Currency
	Checkout    bool
}

// service owns the entry-form state and the set of live intents. It
// decides which payment methods an intent may use and resets the form
// once any method signals completion.
type service struct {
	mu sync.Mutex

	amountInput string
	donorName   string
	currency    model.Currency
	checkout    bool

	intents     map[uuid.UUID]model.DonationIntent
	completions int
}

func NewDonationService() *service {
	return &service{
		currency: model.CurrencyUSD,
		intents:  make(map[uuid.UUID]model.DonationIntent),
	}
}

// SetCurrency switches the donation currency. Changing it clears the
// amount field so a leftover amount never crosses currencies.
func (svc *service) SetCurrency(ctx context.Context, raw string) error {
	const op string = "donation.service.SetCurrency"

	cur, ok := model.ParseCurrency(raw)
	if !ok {
		logger.Error(ctx, "unknown currency", logger.String("currency", raw))
		return fmt.Errorf("%s: %w: currency %q", op, model.ErrValidation, raw)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if cur != svc.currency {
		svc.currency = cur
		svc.amountInput = ""
	}

	return nil
}

func (svc *service) SetAmountInput(amount string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.amountInput = amount
}

func (svc *service) SetDonorName(name string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.donorName = name
}

func (svc *service) State() FlowState {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return FlowState{
		AmountInput: svc.amountInput,
		DonorName:   svc.donorName,
		Currency:    svc.currency,
		Checkout:    svc.checkout,
	}
}

func Presets(cur model.Currency) [5]int64 {
	return presets[cur]
}

// MethodsFor routes by currency: NGN donations settle through the
// Nigerian bank transfer flow, everything else picks PayPal or Zelle.
func MethodsFor(cur model.Currency) []model.PaymentMethod {
	if cur == model.CurrencyNGN {
		return []model.PaymentMethod{model.PaymentMethodNigerianBankTransfer}
	}
	return []model.PaymentMethod{
		model.PaymentMethodPayPal,
		model.PaymentMethodZelle,
	}
}

// CreateIntent validates the entry form and flips the flow into
// checkout mode. Amounts that fail to parse or are not positive block
// progression before anything else happens.
func (svc *service) CreateIntent(ctx context.Context) (*model.DonationIntent, error) {
	const op string = "donation.service.CreateIntent"

	svc.mu.Lock()
	defer svc.mu.Unlock()

	log := logger.With(
		logger.String("amount_input", svc.amountInput),
		logger.String("currency", string(svc.currency)),
	)

	amount, err := converter.ParseAmount(svc.amountInput)
	if err != nil {
		log.Error(ctx, "invalid amount", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w: %v", op, model.ErrValidation, err)
	}
	if amount <= 0 {
		log.Error(ctx, "non-positive amount")
		return nil, fmt.Errorf("%s: %w: amount must be positive", op, model.ErrValidation)
	}

	intent := model.DonationIntent{
		ID:        uuid.New(),
		Amount:    amount,
		Currency:  svc.currency,
		DonorName: svc.donorName,
	}

	svc.intents[intent.ID] = intent
	svc.checkout = true

	log.Info(ctx, "donation intent created",
		logger.String("intent_id", intent.ID.String()),
	)

	return &intent, nil
}

func (svc *service) Intent(intentID uuid.UUID) (*model.DonationIntent, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	intent, ok := svc.intents[intentID]
	if !ok {
		return nil, model.ErrDonationNotFound
	}
	return &intent, nil
}

// Complete is the completion callback shared by every payment method:
// acknowledge, drop the intent, reset the form back to entry mode.
func (svc *service) Complete(intentID uuid.UUID) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	intent, ok := svc.intents[intentID]
	if !ok {
		return
	}

	delete(svc.intents, intentID)
	svc.amountInput = ""
	svc.donorName = ""
	svc.checkout = false
	svc.completions++

	logger.Info(context.Background(), "donation flow completed",
		logger.String("intent_id", intentID.String()),
		logger.String("amount", converter.FormatMinor(intent.Amount)),
		logger.String("currency", string(intent.Currency)),
	)
}

func (svc *service) Completions() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.completions
}
