package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeJanitorStores struct {
	completeCalls int
	completeErr   error
	deleteCalls   int
	deleteCutoff  time.Time
	orphanCalls   int
	staleCalls    int
	flagCalls     int
}

func (f *fakeJanitorStores) CompleteForFinishedSegments() (int, error) {
	f.completeCalls++
	if f.completeErr != nil {
		return 0, f.completeErr
	}
	return 2, nil
}

func (f *fakeJanitorStores) DeleteExpiredGroups(cutoff time.Time) (int, error) {
	f.deleteCalls++
	f.deleteCutoff = cutoff
	return 1, nil
}

func (f *fakeJanitorStores) DeleteOrphaned() (int, error) {
	f.orphanCalls++
	return 0, nil
}

func (f *fakeJanitorStores) DeleteForCancelledBookings() (int, error) {
	f.staleCalls++
	return 2, nil
}

func (f *fakeJanitorStores) DeleteExpired() (int, error) {
	f.flagCalls++
	return 3, nil
}

func TestCleanupRunOnce(t *testing.T) {
	t.Run("Runs Every Step", func(t *testing.T) {
		stores := &fakeJanitorStores{}
		svc := NewCleanupService(stores, stores, stores, stores, testLogger(), time.UTC, time.Hour)

		svc.RunOnce()

		assert.Equal(t, 1, stores.completeCalls)
		assert.Equal(t, 1, stores.deleteCalls)
		assert.Equal(t, 1, stores.orphanCalls)
		assert.Equal(t, 1, stores.staleCalls)
		assert.Equal(t, 1, stores.flagCalls)
		assert.WithinDuration(t, time.Now().Add(-time.Hour), stores.deleteCutoff, time.Minute)
		assert.WithinDuration(t, time.Now(), svc.LastRun(), time.Minute)
	})

	t.Run("Continues Past Failures", func(t *testing.T) {
		stores := &fakeJanitorStores{completeErr: assert.AnError}
		svc := NewCleanupService(stores, stores, stores, stores, testLogger(), time.UTC, time.Hour)

		svc.RunOnce()

		assert.Equal(t, 1, stores.deleteCalls)
		assert.Equal(t, 1, stores.orphanCalls)
		assert.Equal(t, 1, stores.staleCalls)
		assert.Equal(t, 1, stores.flagCalls)
	})
}
