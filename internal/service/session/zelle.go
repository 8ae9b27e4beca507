package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

const defaultZelleDismissDelay = 2 * time.Second

// ZelleSession collects an email or phone identifier plus the
// 9-character confirmation code and submits once:
// idle -> submitting -> (success | error). A failed attempt never
// retries itself; the donor closes the dialog and submits again.
type ZelleSession struct {
	mu sync.Mutex

	intent     model.DonationIntent
	validator  Validator
	onComplete func()

	ctx          context.Context
	dismissDelay time.Duration
	newTimer     func(time.Duration) *time.Timer

	tab           model.ZelleTab
	email         string
	phone         string
	transactionID string

	status    model.SubmitStatus
	dialog    model.DialogState
	completed bool
}

func NewZelleSession(
	ctx context.Context,
	intent model.DonationIntent,
	validator Validator,
	onComplete func(),
) *ZelleSession {
	return &ZelleSession{
		intent:       intent,
		validator:    validator,
		onComplete:   onComplete,
		ctx:          ctx,
		dismissDelay: defaultZelleDismissDelay,
		newTimer:     time.NewTimer,
		tab:          model.ZelleTabEmail,
		status:       model.SubmitIdle,
		dialog:       noDialog(),
	}
}

func (s *ZelleSession) Method() model.PaymentMethod { return model.PaymentMethodZelle }

func (s *ZelleSession) Status() model.SubmitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *ZelleSession) Dialog() model.DialogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// SelectTab switches between the email and phone identifier; the tabs
// are mutually exclusive so the inactive identifier is cleared.
func (s *ZelleSession) SelectTab(tab model.ZelleTab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tab != model.ZelleTabEmail && tab != model.ZelleTabPhone {
		return
	}

	s.tab = tab
	if tab == model.ZelleTabEmail {
		s.phone = ""
	} else {
		s.email = ""
	}
}

func (s *ZelleSession) Tab() model.ZelleTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *ZelleSession) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = model.ZelleTabEmail
	s.email = email
	s.phone = ""
}

func (s *ZelleSession) SetPhone(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = model.ZelleTabPhone
	s.phone = phone
	s.email = ""
}

// TypeTransactionID normalizes on every input: uppercased, stripped to
// [A-Z0-9], truncated to 9 characters, no matter what was pasted.
func (s *ZelleSession) TypeTransactionID(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionID = converter.NormalizeZelleTransactionID(raw)
}

func (s *ZelleSession) TransactionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionID
}

func (s *ZelleSession) Submit(ctx context.Context) error {
	const op string = "session.zelle.Submit"

	s.mu.Lock()
	if s.status == model.SubmitInFlight {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w: submission already in flight", op, model.ErrSessionConflict)
	}

	sub := model.ZelleSubmission{
		SenderEmail:   s.email,
		SenderPhone:   s.phone,
		TransactionID: s.transactionID,
		Amount:        s.intent.Amount,
		Currency:      s.intent.Currency,
	}
	if err := sub.Validate(); err != nil {
		// Input errors are shown inline, not as a blocking dialog.
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	s.status = model.SubmitInFlight
	s.dialog = processingDialog()
	s.mu.Unlock()

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	_, err := s.validator.ValidateZelle(callCtx, sub)

	s.mu.Lock()
	if s.ctx.Err() != nil {
		// Session destroyed while the call was in flight; the response
		// must not resurrect it.
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, s.ctx.Err())
	}

	if err != nil {
		s.status = model.SubmitError
		s.dialog = dialogForError(err)
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	s.status = model.SubmitSuccess
	s.dialog = successDialog()
	s.mu.Unlock()

	timer := s.newTimer(s.dismissDelay)
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

// CloseDialog dismisses the error dialog and returns the session to
// idle so the donor can correct fields and resubmit. It never issues
// a network call.
func (s *ZelleSession) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dialog.Kind == model.DialogError {
		s.dialog = noDialog()
		s.status = model.SubmitIdle
	}
}

func (s *ZelleSession) Close() {}

func (s *ZelleSession) fireComplete() {
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
