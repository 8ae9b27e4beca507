package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

const (
	donateBaseURL = "https://www.paypal.com/donate/"

	defaultPollInterval  = 500 * time.Millisecond
	defaultCompleteDelay = time.Second
)

// PayPalConfig is the configuration slice the PayPal session needs.
type PayPalConfig interface {
	BusinessEmail() string
	ItemName() string
	ReturnURL() string
}

// PayPalSession drives the external-window donation flow:
// idle -> popupOpen -> (completed | canceled) -> idle. While the
// window is open a watcher polls the probe every pollInterval; a
// window that disappears without the completion signal lands in
// canceled with a retry affordance, never in a fatal error.
type PayPalSession struct {
	mu sync.Mutex

	intent     model.DonationIntent
	cfg        PayPalConfig
	opener     WindowOpener
	onComplete func()

	ctx           context.Context
	pollInterval  time.Duration
	completeDelay time.Duration
	newTimer      func(time.Duration) *time.Timer

	status      model.PayPalStatus
	dialog      model.DialogState
	probe       WindowProbe
	watchCancel context.CancelFunc
	completed   bool
}

func NewPayPalSession(
	ctx context.Context,
	intent model.DonationIntent,
	cfg PayPalConfig,
	opener WindowOpener,
	onComplete func(),
) *PayPalSession {
	return &PayPalSession{
		intent:        intent,
		cfg:           cfg,
		opener:        opener,
		onComplete:    onComplete,
		ctx:           ctx,
		pollInterval:  defaultPollInterval,
		completeDelay: defaultCompleteDelay,
		newTimer:      time.NewTimer,
		status:        model.PayPalIdle,
		dialog:        noDialog(),
	}
}

func (s *PayPalSession) Method() model.PaymentMethod { return model.PaymentMethodPayPal }

func (s *PayPalSession) Status() model.PayPalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *PayPalSession) Dialog() model.DialogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// Begin opens the donate window. From canceled it resets to idle
// first, so retry is begin again.
func (s *PayPalSession) Begin(_ context.Context) (string, error) {
	const op string = "session.paypal.Begin"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.PayPalCanceled {
		s.status = model.PayPalIdle
		s.dialog = noDialog()
	}

	if s.status != model.PayPalIdle {
		return "", fmt.Errorf("%s: %w", op, model.ErrSessionConflict)
	}

	if s.cfg.BusinessEmail() == "" {
		s.dialog = model.DialogState{
			Kind:      model.DialogError,
			Message:   missingPayPalConfigMessage,
			CanRetry:  false,
			Dismissal: true,
		}
		return "", fmt.Errorf("%s: %w: paypal business email", op, model.ErrConfig)
	}

	donateURL := s.donateURL()

	probe, err := s.opener.Open(donateURL)
	if err != nil {
		s.dialog = model.DialogState{
			Kind:      model.DialogError,
			Message:   popupBlockedMessage,
			CanRetry:  true,
			Dismissal: true,
		}
		return "", fmt.Errorf("%s: %w: %v", op, model.ErrPopupBlocked, err)
	}

	s.probe = probe
	s.status = model.PayPalPopupOpen
	s.dialog = noDialog()

	watchCtx, cancel := context.WithCancel(s.ctx)
	s.watchCancel = cancel
	go s.watch(watchCtx, probe)

	return donateURL, nil
}

// SignalCompleted is the out-of-band "paymentCompleted" message from
// the return page. It resolves the session and, after a short delay,
// fires the completion callback exactly once.
func (s *PayPalSession) SignalCompleted(_ context.Context) error {
	const op string = "session.paypal.SignalCompleted"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.PayPalPopupOpen {
		return fmt.Errorf("%s: %w", op, model.ErrSessionConflict)
	}

	s.status = model.PayPalCompleted
	s.dialog = successDialog()
	if s.watchCancel != nil {
		s.watchCancel()
	}

	timer := s.newTimer(s.completeDelay)
	go func() {
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}
		s.fireComplete()
	}()

	return nil
}

// Heartbeat forwards a keep-alive from the client watching the popup.
func (s *PayPalSession) Heartbeat() {
	s.mu.Lock()
	probe := s.probe
	s.mu.Unlock()

	if hb, ok := probe.(*heartbeatProbe); ok {
		hb.Beat()
	}
}

// ReportClosed is the client explicitly reporting the popup closed.
// The watcher picks the state change up on its next tick.
func (s *PayPalSession) ReportClosed() {
	s.mu.Lock()
	probe := s.probe
	s.mu.Unlock()

	if hb, ok := probe.(*heartbeatProbe); ok {
		hb.MarkClosed()
	}
}

func (s *PayPalSession) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dialog.Kind == model.DialogError {
		s.dialog = noDialog()
	}
}

func (s *PayPalSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watchCancel != nil {
		s.watchCancel()
	}
}

func (s *PayPalSession) watch(ctx context.Context, probe WindowProbe) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !probe.Closed() {
				continue
			}

			s.mu.Lock()
			if s.status == model.PayPalPopupOpen {
				s.status = model.PayPalCanceled
				s.dialog = model.DialogState{
					Kind:      model.DialogError,
					Message:   popupClosedMessage,
					CanRetry:  true,
					Dismissal: true,
				}
				logger.Warn(ctx, "paypal window closed before completion",
					logger.String("intent_id", s.intent.ID.String()),
				)
			}
			s.mu.Unlock()
			return
		}
	}
}

func (s *PayPalSession) fireComplete() {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	s.dialog = noDialog()
	cb := s.onComplete
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (s *PayPalSession) donateURL() string {
	v := url.Values{}
	v.Set("business", s.cfg.BusinessEmail())
	v.Set("cmd", "_donations")
	v.Set("currency_code", string(s.intent.Currency))
	v.Set("item_name", s.cfg.ItemName())
	v.Set("amount", converter.FormatMinor(s.intent.Amount))
	v.Set("return", s.cfg.ReturnURL())

	return donateBaseURL + "?" + v.Encode()
}
