package pending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

type fakeUpdater struct {
	mu      sync.Mutex
	updates map[uuid.UUID]model.DonationStatus
}

func newFakeUpdater() *fakeUpdater {
	return &fakeUpdater{updates: make(map[uuid.UUID]model.DonationStatus)}
}

func (u *fakeUpdater) UpdateStatus(_ context.Context, id uuid.UUID, status model.DonationStatus) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.updates[id] = status
	return nil
}

func (u *fakeUpdater) statusOf(id uuid.UUID) model.DonationStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.updates[id]
}

func TestWatcherConfirms(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	updater := newFakeUpdater()
	w := NewWatcher(updater)
	w.confirmAfter = time.Millisecond
	w.failAfter = time.Hour

	donationID := uuid.New()
	w.Watch(context.Background(), donationID)

	assert.Equal(t, model.ConfirmationPending, w.Status(donationID))

	require.Eventually(t, func() bool {
		return w.Status(donationID) == model.ConfirmationConfirmed
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return updater.statusOf(donationID) == model.StatusConfirmed
	}, time.Second, time.Millisecond)
}

func TestWatcherFailsWhenStillPending(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	updater := newFakeUpdater()
	w := NewWatcher(updater)
	w.confirmAfter = time.Hour
	w.failAfter = time.Millisecond

	donationID := uuid.New()
	w.Watch(context.Background(), donationID)

	require.Eventually(t, func() bool {
		return w.Status(donationID) == model.ConfirmationFailed
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return updater.statusOf(donationID) == model.StatusFailed
	}, time.Second, time.Millisecond)
}

func TestWatcherContextCancelStopsTimers(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	updater := newFakeUpdater()
	w := NewWatcher(updater)
	w.confirmAfter = 50 * time.Millisecond
	w.failAfter = time.Hour

	ctx, cancel := context.WithCancel(context.Background())

	donationID := uuid.New()
	w.Watch(ctx, donationID)
	cancel()

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, model.ConfirmationPending, w.Status(donationID))
	assert.Empty(t, updater.statusOf(donationID))
}

func TestWatcherUnknownDonation(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	w := NewWatcher(newFakeUpdater())
	assert.Empty(t, w.Status(uuid.New()))
}
