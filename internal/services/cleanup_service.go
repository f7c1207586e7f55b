package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CleanupSegmentStore removes finished segment groups.
type CleanupSegmentStore interface {
	DeleteExpiredGroups(cutoff time.Time) (int, error)
}

// CleanupBookingStore settles bookings for finished trips.
type CleanupBookingStore interface {
	CompleteForFinishedSegments() (int, error)
}

// LedgerJanitor removes seat claims no live booking holds: rows whose
// group is gone, and rows a failed release left behind on cancellation.
type LedgerJanitor interface {
	DeleteOrphaned() (int, error)
	DeleteForCancelledBookings() (int, error)
}

// CancellationJanitor removes expired payment-cancellation flags.
type CancellationJanitor interface {
	DeleteExpired() (int, error)
}

// CleanupService retires finished trips: bookings on completed segments
// are marked completed, groups whose arrival passed the grace window are
// deleted with their ledger rows, and expired payment-cancellation flags
// are dropped. Runs from the cron schedule and on admin demand.
type CleanupService struct {
	segments      CleanupSegmentStore
	bookings      CleanupBookingStore
	ledger        LedgerJanitor
	cancellations CancellationJanitor
	logger        *logrus.Logger
	loc           *time.Location
	grace         time.Duration

	mu      sync.Mutex
	lastRun time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(segments CleanupSegmentStore, bookings CleanupBookingStore, ledger LedgerJanitor, cancellations CancellationJanitor, logger *logrus.Logger, loc *time.Location, grace time.Duration) *CleanupService {
	return &CleanupService{
		segments:      segments,
		bookings:      bookings,
		ledger:        ledger,
		cancellations: cancellations,
		logger:        logger,
		loc:           loc,
		grace:         grace,
	}
}

// RunOnce performs a single cleanup pass. Each step runs even when an
// earlier one fails; partial progress beats none.
func (s *CleanupService) RunOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed, err := s.bookings.CompleteForFinishedSegments()
	if err != nil {
		s.logger.WithError(err).Error("Cleanup: failed to complete bookings for finished segments")
	}

	cutoff := time.Now().In(s.loc).Add(-s.grace)
	deleted, err := s.segments.DeleteExpiredGroups(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Cleanup: failed to delete expired segment groups")
	}

	orphaned, err := s.ledger.DeleteOrphaned()
	if err != nil {
		s.logger.WithError(err).Error("Cleanup: failed to delete orphaned seat claims")
	}

	stale, err := s.ledger.DeleteForCancelledBookings()
	if err != nil {
		s.logger.WithError(err).Error("Cleanup: failed to delete claims held by cancelled bookings")
	}

	flags, err := s.cancellations.DeleteExpired()
	if err != nil {
		s.logger.WithError(err).Error("Cleanup: failed to delete expired payment cancellations")
	}

	s.lastRun = time.Now().In(s.loc)
	if completed+deleted+orphaned+stale+flags > 0 {
		s.logger.WithFields(logrus.Fields{
			"bookings_completed": completed,
			"groups_deleted":     deleted,
			"claims_orphaned":    orphaned,
			"claims_stale":       stale,
			"flags_expired":      flags,
		}).Info("Cleanup pass finished")
	}
}

// LastRun reports when the previous pass completed, for the health payload.
func (s *CleanupService) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
