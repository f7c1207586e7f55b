package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// SegmentLister is the slice of the segment repository the listing needs.
type SegmentLister interface {
	List(filter models.ListFilter) ([]models.Segment, error)
	GetAll() ([]models.Segment, error)
	GetByID(id string) (*models.Segment, error)
}

// ListingService builds passenger-facing segment views: each segment is
// decorated with its group's booked-seat set and the derived availability
// fields. Departed and long-arrived trips are filtered out here rather
// than in SQL so the cutoffs use wall-clock time in the service timezone.
type ListingService struct {
	segments  SegmentLister
	inventory *SeatInventoryService
	logger    *logrus.Logger
	loc       *time.Location

	cutoff time.Duration // booking closes this long before departure
	grace  time.Duration // trips stay listed this long after arrival

	now func() time.Time // injectable for tests
}

// NewListingService creates a new listing service
func NewListingService(segments SegmentLister, inventory *SeatInventoryService, logger *logrus.Logger, loc *time.Location, cutoff, grace time.Duration) *ListingService {
	return &ListingService{
		segments:  segments,
		inventory: inventory,
		logger:    logger,
		loc:       loc,
		cutoff:    cutoff,
		grace:     grace,
		now:       time.Now,
	}
}

// Search returns active, not-yet-finished segments matching the filter,
// decorated with seat availability.
func (s *ListingService) Search(filter models.ListFilter) ([]models.SegmentView, error) {
	segments, err := s.segments.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return s.decorate(segments, true)
}

// All returns every segment, including inactive and finished ones. Admin
// listings need the full picture, so no time filtering is applied.
func (s *ListingService) All() ([]models.SegmentView, error) {
	segments, err := s.segments.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return s.decorate(segments, false)
}

// Get returns one segment view by id.
func (s *ListingService) Get(id string) (*models.SegmentView, error) {
	segment, err := s.segments.GetByID(id)
	if err != nil {
		return nil, err
	}
	seats, err := s.inventory.Resolve(segment.GroupID)
	if err != nil {
		return nil, err
	}
	view := s.buildView(*segment, seats)
	return &view, nil
}

func (s *ListingService) decorate(segments []models.Segment, hideFinished bool) ([]models.SegmentView, error) {
	segments = dedupeByID(segments)
	if hideFinished {
		segments = s.filterFinished(segments)
	}
	if len(segments) == 0 {
		return []models.SegmentView{}, nil
	}

	groupIDs := make([]string, 0, len(segments))
	seen := make(map[string]bool)
	for _, seg := range segments {
		if !seen[seg.GroupID] {
			seen[seg.GroupID] = true
			groupIDs = append(groupIDs, seg.GroupID)
		}
	}

	seatsByGroup, err := s.inventory.ResolveMany(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seat sets: %w", err)
	}

	views := make([]models.SegmentView, 0, len(segments))
	for _, seg := range segments {
		views = append(views, s.buildView(seg, seatsByGroup[seg.GroupID]))
	}
	return views, nil
}

// filterFinished drops segments whose arrival plus the grace window has
// passed. Segments with unparseable times are kept; bad data should show
// up in listings rather than vanish.
func (s *ListingService) filterFinished(segments []models.Segment) []models.Segment {
	now := s.now().In(s.loc)
	kept := make([]models.Segment, 0, len(segments))
	for _, seg := range segments {
		arrival, err := seg.ArrivalAt(s.loc)
		if err != nil {
			s.logger.WithError(err).WithField("segment_id", seg.ID).Warn("Segment has unparseable arrival time")
			kept = append(kept, seg)
			continue
		}
		if now.After(arrival.Add(s.grace)) {
			continue
		}
		kept = append(kept, seg)
	}
	return kept
}

func (s *ListingService) buildView(seg models.Segment, seats []string) models.SegmentView {
	if seats == nil {
		seats = []string{}
	}
	available := seg.Capacity - len(seats)
	if available < 0 {
		available = 0
	}

	disabled := false
	departure, err := seg.DepartureAt(s.loc)
	if err == nil && s.now().In(s.loc).After(departure.Add(-s.cutoff)) {
		disabled = true
	}

	seg.IsFullyBooked = len(seats) >= seg.Capacity

	return models.SegmentView{
		Segment:         seg,
		SeatsBooked:     seats,
		AvailableSeats:  available,
		BookingDisabled: disabled,
	}
}

func dedupeByID(segments []models.Segment) []models.Segment {
	seen := make(map[string]bool, len(segments))
	out := make([]models.Segment, 0, len(segments))
	for _, seg := range segments {
		if seen[seg.ID] {
			continue
		}
		seen[seg.ID] = true
		out = append(out, seg)
	}
	return out
}
