package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

type fakeValidator struct {
	mu sync.Mutex

	zelleFn func(ctx context.Context, sub model.ZelleSubmission) (*model.ValidationResult, error)
	bankFn  func(ctx context.Context, sub model.BankTransferSubmission) (*model.ValidationResult, error)

	zelleCalls int
	bankCalls  int
}

func (v *fakeValidator) ValidateZelle(
	ctx context.Context,
	sub model.ZelleSubmission,
) (*model.ValidationResult, error) {
	v.mu.Lock()
	v.zelleCalls++
	fn := v.zelleFn
	v.mu.Unlock()

	if fn == nil {
		return &model.ValidationResult{Status: model.StatusValidated}, nil
	}
	return fn(ctx, sub)
}

func (v *fakeValidator) ValidateBankTransfer(
	ctx context.Context,
	sub model.BankTransferSubmission,
) (*model.ValidationResult, error) {
	v.mu.Lock()
	v.bankCalls++
	fn := v.bankFn
	v.mu.Unlock()

	if fn == nil {
		return &model.ValidationResult{Status: model.StatusValidated}, nil
	}
	return fn(ctx, sub)
}

func (v *fakeValidator) ZelleCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zelleCalls
}

func (v *fakeValidator) BankCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bankCalls
}

type fakeProbe struct {
	closed atomic.Bool
}

func (p *fakeProbe) Closed() bool { return p.closed.Load() }

type fakeOpener struct {
	probe   *fakeProbe
	err     error
	lastURL string
}

func (o *fakeOpener) Open(url string) (WindowProbe, error) {
	o.lastURL = url
	if o.err != nil {
		return nil, o.err
	}
	if o.probe == nil {
		o.probe = &fakeProbe{}
	}
	return o.probe, nil
}

type fakePayPalConfig struct {
	business string
	item     string
	ret      string
}

func (c fakePayPalConfig) BusinessEmail() string { return c.business }
func (c fakePayPalConfig) ItemName() string      { return c.item }
func (c fakePayPalConfig) ReturnURL() string     { return c.ret }

func immediateTimer(time.Duration) *time.Timer { return time.NewTimer(0) }

// completionCounter counts onComplete invocations across goroutines.
type completionCounter struct {
	n atomic.Int32
}

func (c *completionCounter) fn() func() {
	return func() { c.n.Add(1) }
}

func (c *completionCounter) count() int { return int(c.n.Load()) }

func (c *completionCounter) wait(want int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.count() >= want {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return c.count() >= want
}

var errPopupBlockedByBrowser = errors.New("blocked by browser")
