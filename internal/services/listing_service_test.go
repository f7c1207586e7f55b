package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

type fakeSegmentLister struct {
	segments []models.Segment
}

func (f *fakeSegmentLister) List(filter models.ListFilter) ([]models.Segment, error) {
	return f.segments, nil
}

func (f *fakeSegmentLister) GetAll() ([]models.Segment, error) {
	return f.segments, nil
}

func (f *fakeSegmentLister) GetByID(id string) (*models.Segment, error) {
	for i := range f.segments {
		if f.segments[i].ID == id {
			clone := f.segments[i]
			return &clone, nil
		}
	}
	return nil, models.ErrSegmentNotFound
}

func newTestListingService(ledger *fakeLedger, lister *fakeSegmentLister, counts map[string]int) *ListingService {
	inventory := NewSeatInventoryService(ledger, &fakeGroupReader{counts: counts}, testLogger())
	svc := NewListingService(lister, inventory, testLogger(), time.UTC, 30*time.Minute, 60*time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearchDerivedFields(t *testing.T) {
	ledger := newFakeLedger()
	require.NoError(t, ledger.Claim("group-1", "booking-1", []string{"A1", "A2", "A3"}, 40))

	seg := *testSegment()
	lister := &fakeSegmentLister{segments: []models.Segment{seg}}
	svc := newTestListingService(ledger, lister, map[string]int{"group-1": 1})

	views, err := svc.Search(models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.ElementsMatch(t, []string{"A1", "A2", "A3"}, view.SeatsBooked)
	assert.Equal(t, 37, view.AvailableSeats)
	assert.False(t, view.IsFullyBooked)
	assert.False(t, view.BookingDisabled)
}

func TestSearchSharedGroupSeatSet(t *testing.T) {
	// Two segments of the same vehicle must report the same seat set.
	ledger := newFakeLedger()
	require.NoError(t, ledger.Claim("group-1", "booking-1", []string{"C4"}, 40))

	primary := *testSegment()
	child := *testSegment()
	child.ID = "segment-2"
	child.Destination = "Nkawkaw"
	child.IsSegment = true
	child.ParentID = &primary.ID

	lister := &fakeSegmentLister{segments: []models.Segment{primary, child}}
	svc := newTestListingService(ledger, lister, map[string]int{"group-1": 2})

	views, err := svc.Search(models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, views[0].SeatsBooked, views[1].SeatsBooked)
}

func TestSearchHidesLongFinishedTrips(t *testing.T) {
	past := *testSegment()
	past.ID = "segment-past"
	past.JourneyDate = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	past.ArrivalDate = past.JourneyDate
	past.DepartureTime = "06:00"
	past.ArrivalTime = "10:00" // grace window ended 11:00, now is 12:00

	recent := *testSegment()
	recent.ID = "segment-recent"
	recent.JourneyDate = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	recent.ArrivalDate = recent.JourneyDate
	recent.DepartureTime = "08:00"
	recent.ArrivalTime = "11:30" // still inside the 60 minute grace

	lister := &fakeSegmentLister{segments: []models.Segment{past, recent}}
	svc := newTestListingService(newFakeLedger(), lister, map[string]int{"group-1": 2})

	views, err := svc.Search(models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "segment-recent", views[0].ID)
}

func TestSearchDisablesBookingNearDeparture(t *testing.T) {
	soon := *testSegment()
	soon.JourneyDate = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	soon.ArrivalDate = soon.JourneyDate
	soon.DepartureTime = "12:15" // 15 minutes out, inside the 30 minute cutoff
	soon.ArrivalTime = "16:00"

	lister := &fakeSegmentLister{segments: []models.Segment{soon}}
	svc := newTestListingService(newFakeLedger(), lister, map[string]int{"group-1": 1})

	views, err := svc.Search(models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].BookingDisabled)
}

func TestSearchDeduplicatesByID(t *testing.T) {
	seg := *testSegment()
	lister := &fakeSegmentLister{segments: []models.Segment{seg, seg}}
	svc := newTestListingService(newFakeLedger(), lister, map[string]int{"group-1": 1})

	views, err := svc.Search(models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestGetUnknownGroup(t *testing.T) {
	seg := *testSegment()
	seg.GroupID = "group-unknown"
	lister := &fakeSegmentLister{segments: []models.Segment{seg}}
	svc := newTestListingService(newFakeLedger(), lister, map[string]int{})

	_, err := svc.Get(seg.ID)
	assert.ErrorIs(t, err, models.ErrGroupNotFound)
}

func TestFullyBookedView(t *testing.T) {
	ledger := newFakeLedger()
	require.NoError(t, ledger.Claim("group-1", "booking-1", []string{"A1", "A2"}, 2))

	seg := *testSegment()
	seg.Capacity = 2
	lister := &fakeSegmentLister{segments: []models.Segment{seg}}
	svc := newTestListingService(ledger, lister, map[string]int{"group-1": 1})

	view, err := svc.Get(seg.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFullyBooked)
	assert.Equal(t, 0, view.AvailableSeats)
}
