package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

const defaultBankCompleteDelay = time.Second

// BankTransferSession is the Nigerian bank transfer flow: a details
// tab showing the ministry's account and an upload tab collecting the
// sender name, the 10-digit reference and a PDF slip. The upload
// substate runs idle -> submitting -> (success | error).
type BankTransferSession struct {
	mu sync.Mutex

	intent     model.DonationIntent
	validator  Validator
	onComplete func()

	ctx           context.Context
	completeDelay time.Duration
	newTimer      func(time.Duration) *time.Timer

	tab        model.BankTab
	senderName string
	reference  string
	slip       *model.SlipFile

	status    model.SubmitStatus
	dialog    model.DialogState
	completed bool
}

func NewBankTransferSession(
	ctx context.Context,
	intent model.DonationIntent,
	validator Validator,
	onComplete func(),
) *BankTransferSession {
	return &BankTransferSession{
		intent:        intent,
		validator:     validator,
		onComplete:    onComplete,
		ctx:           ctx,
		completeDelay: defaultBankCompleteDelay,
		newTimer:      time.NewTimer,
		tab:           model.BankTabDetails,
		status:        model.SubmitIdle,
		dialog:        noDialog(),
	}
}

func (s *BankTransferSession) Method() model.PaymentMethod {
	return model.PaymentMethodNigerianBankTransfer
}

func (s *BankTransferSession) Status() model.SubmitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *BankTransferSession) Dialog() model.DialogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

func (s *BankTransferSession) SelectTab(tab model.BankTab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tab != model.BankTabDetails && tab != model.BankTabUploadSlip {
		return
	}
	s.tab = tab
}

func (s *BankTransferSession) Tab() model.BankTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *BankTransferSession) SetSenderName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senderName = name
}

// TypeReference keeps digits only, truncated to 10 characters.
func (s *BankTransferSession) TypeReference(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference = converter.NormalizeBankReference(raw)
}

func (s *BankTransferSession) Reference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

func (s *BankTransferSession) Slip() *model.SlipFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slip
}

// AttachSlip rejects oversized files immediately: the slip stays nil,
// the error dialog opens, and nothing goes over the wire.
func (s *BankTransferSession) AttachSlip(f *model.SlipFile) error {
	const op string = "session.banktransfer.AttachSlip"

	s.mu.Lock()
	defer s.mu.Unlock()

	if f == nil {
		return fmt.Errorf("%s: %w", op, model.NewValidationError("missing slip file"))
	}

	if f.Size > model.MaxSlipSize {
		s.dialog = dialogForError(model.ErrSlipTooLarge)
		return fmt.Errorf("%s: %w", op, model.ErrSlipTooLarge)
	}

	s.slip = f
	return nil
}

func (s *BankTransferSession) Submit(ctx context.Context) error {
	const op string = "session.banktransfer.Submit"

	s.mu.Lock()
	if s.status == model.SubmitInFlight {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w: submission already in flight", op, model.ErrSessionConflict)
	}

	sub := model.BankTransferSubmission{
		Reference:  s.reference,
		SenderName: s.senderName,
		Amount:     s.intent.Amount,
		Currency:   s.intent.Currency,
		Slip:       s.slip,
	}
	if err := sub.Validate(); err != nil {
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

	_, err := s.validator.ValidateBankTransfer(callCtx, sub)

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, s.ctx.Err())
	}

	if err != nil {
		s.status = model.SubmitError
		s.dialog = dialogForError(err)
		if errors.Is(err, model.ErrDuplicateReference) {
			// A duplicate means the number was mistyped or reused; the
			// field is cleared so the donor re-enters it.
			s.reference = ""
		}
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	s.status = model.SubmitSuccess
	s.dialog = successDialog()
	s.mu.Unlock()

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

func (s *BankTransferSession) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dialog.Kind == model.DialogError {
		s.dialog = noDialog()
		s.status = model.SubmitIdle
	}
}

func (s *BankTransferSession) Close() {}

func (s *BankTransferSession) fireComplete() {
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
