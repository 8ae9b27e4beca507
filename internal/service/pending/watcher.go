package pending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

// The watcher simulates asynchronous backend confirmation with fixed
// timers: confirmed after 5s, failed after 30s if still pending. It is
// demo/fallback UX, not wired to any real payment-confirmation signal;
// replace the timers with the webhook when one exists.
const (
	defaultConfirmAfter = 5 * time.Second
	defaultFailAfter    = 30 * time.Second
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.DonationStatus) error
}

type watcher struct {
	updater StatusUpdater

	confirmAfter time.Duration
	failAfter    time.Duration
	newTimer     func(time.Duration) *time.Timer

	mu       sync.Mutex
	statuses map[uuid.UUID]model.ConfirmationStatus
}

func NewWatcher(updater StatusUpdater) *watcher {
	return &watcher{
		updater:      updater,
		confirmAfter: defaultConfirmAfter,
		failAfter:    defaultFailAfter,
		newTimer:     time.NewTimer,
		statuses:     make(map[uuid.UUID]model.ConfirmationStatus),
	}
}

func (w *watcher) Status(donationID uuid.UUID) model.ConfirmationStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, ok := w.statuses[donationID]
	if !ok {
		return ""
	}
	return status
}

// Watch marks the donation pending and runs both timers until one
// resolves it or the context is cancelled.
func (w *watcher) Watch(ctx context.Context, donationID uuid.UUID) {
	w.mu.Lock()
	w.statuses[donationID] = model.ConfirmationPending
	w.mu.Unlock()

	go w.run(ctx, donationID)
}

func (w *watcher) run(ctx context.Context, donationID uuid.UUID) {
	confirmTimer := w.newTimer(w.confirmAfter)
	defer confirmTimer.Stop()
	failTimer := w.newTimer(w.failAfter)
	defer failTimer.Stop()

	select {
	case <-ctx.Done():
		return

	case <-confirmTimer.C:
		w.resolve(ctx, donationID, model.ConfirmationConfirmed, model.StatusConfirmed)

	case <-failTimer.C:
		if w.Status(donationID) == model.ConfirmationPending {
			w.resolve(ctx, donationID, model.ConfirmationFailed, model.StatusFailed)
		}
	}
}

func (w *watcher) resolve(
	ctx context.Context,
	donationID uuid.UUID,
	status model.ConfirmationStatus,
	donationStatus model.DonationStatus,
) {
	w.mu.Lock()
	if w.statuses[donationID] != model.ConfirmationPending {
		w.mu.Unlock()
		return
	}
	w.statuses[donationID] = status
	w.mu.Unlock()

	if w.updater == nil {
		return
	}

	if err := w.updater.UpdateStatus(ctx, donationID, donationStatus); err != nil {
		logger.Error(ctx, "update donation status",
			logger.String("donation_id", donationID.String()),
			logger.String("status", string(donationStatus)),
			logger.ErrorF(err),
		)
	}
}
