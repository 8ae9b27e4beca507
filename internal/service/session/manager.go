package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

type entry struct {
	session Session
	cancel  context.CancelFunc
}

// Manager owns the live payment sessions, one per donation intent.
// Each session gets its own context cancelled on destroy, so a
// response landing after the session is gone cannot mutate it.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry

	validator  Validator
	opener     WindowOpener
	paypalCfg  PayPalConfig
	onComplete func(intentID uuid.UUID)
}

func NewManager(
	validator Validator,
	opener WindowOpener,
	paypalCfg PayPalConfig,
	onComplete func(intentID uuid.UUID),
) *Manager {
	return &Manager{
		sessions:   make(map[uuid.UUID]*entry),
		validator:  validator,
		opener:     opener,
		paypalCfg:  paypalCfg,
		onComplete: onComplete,
	}
}

// Create mounts the method session for an intent, replacing any
// existing one. NGN donations go through the bank transfer flow only;
// every other currency chooses between PayPal and Zelle.
func (m *Manager) Create(
	ctx context.Context,
	intent model.DonationIntent,
	method model.PaymentMethod,
) (Session, error) {
	const op string = "session.manager.Create"

	if intent.Currency == model.CurrencyNGN && method != model.PaymentMethodNigerianBankTransfer {
		return nil, fmt.Errorf("%s: %w: NGN donations use bank transfer", op, model.ErrValidation)
	}
	if intent.Currency != model.CurrencyNGN && method == model.PaymentMethodNigerianBankTransfer {
		return nil, fmt.Errorf("%s: %w: bank transfer accepts NGN only", op, model.ErrValidation)
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	var sess Session
	switch method {
	case model.PaymentMethodPayPal:
		sess = NewPayPalSession(sessionCtx, intent, m.paypalCfg, m.opener, m.complete(intent.ID))
	case model.PaymentMethodZelle:
		sess = NewZelleSession(sessionCtx, intent, m.validator, m.complete(intent.ID))
	case model.PaymentMethodNigerianBankTransfer:
		sess = NewBankTransferSession(sessionCtx, intent, m.validator, m.complete(intent.ID))
	default:
		cancel()
		return nil, fmt.Errorf("%s: %w: method %s", op, model.ErrValidation, method)
	}

	m.mu.Lock()
	if prev, ok := m.sessions[intent.ID]; ok {
		prev.session.Close()
		prev.cancel()
	}
	m.sessions[intent.ID] = &entry{session: sess, cancel: cancel}
	m.mu.Unlock()

	return sess, nil
}

func (m *Manager) Session(intentID uuid.UUID) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[intentID]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return e.session, nil
}

func (m *Manager) PayPal(intentID uuid.UUID) (*PayPalSession, error) {
	sess, err := m.Session(intentID)
	if err != nil {
		return nil, err
	}

	pp, ok := sess.(*PayPalSession)
	if !ok {
		return nil, fmt.Errorf("%w: active session is %s", model.ErrSessionConflict, sess.Method())
	}
	return pp, nil
}

func (m *Manager) Zelle(intentID uuid.UUID) (*ZelleSession, error) {
	sess, err := m.Session(intentID)
	if err != nil {
		return nil, err
	}

	z, ok := sess.(*ZelleSession)
	if !ok {
		return nil, fmt.Errorf("%w: active session is %s", model.ErrSessionConflict, sess.Method())
	}
	return z, nil
}

func (m *Manager) BankTransfer(intentID uuid.UUID) (*BankTransferSession, error) {
	sess, err := m.Session(intentID)
	if err != nil {
		return nil, err
	}

	bt, ok := sess.(*BankTransferSession)
	if !ok {
		return nil, fmt.Errorf("%w: active session is %s", model.ErrSessionConflict, sess.Method())
	}
	return bt, nil
}

// Destroy tears the session down and cancels its context, aborting
// any in-flight validation call.
func (m *Manager) Destroy(intentID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[intentID]; ok {
		e.session.Close()
		e.cancel()
		delete(m.sessions, intentID)
	}
}

func (m *Manager) complete(intentID uuid.UUID) func() {
	return func() {
		if m.onComplete != nil {
			m.onComplete(intentID)
		}
	}
}
