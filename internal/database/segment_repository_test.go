package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

func sampleSegments() []models.Segment {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	primary := models.Segment{
		ID:            "segment-1",
		GroupID:       "group-1",
		Origin:        "Accra",
		Destination:   "Tamale",
		JourneyDate:   date,
		ArrivalDate:   date,
		DepartureTime: "06:00",
		ArrivalTime:   "18:30",
		Capacity:      44,
		Fare:          250,
		BusNumber:     "GN-5521-22",
		BusType:       models.BusTypeLuxury,
		Status:        models.SegmentStatusNotStarted,
		IsActive:      true,
	}
	child := primary
	child.ID = "segment-2"
	child.Destination = "Kumasi"
	child.Fare = 120
	child.IsSegment = true
	child.ParentID = &primary.ID
	return []models.Segment{primary, child}
}

func TestCreateGroup(t *testing.T) {
	t.Run("Inserts All Segments In One Transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSegmentRepository(db)
		segments := sampleSegments()

		mock.ExpectBegin()
		for range segments {
			mock.ExpectExec("INSERT INTO segments").
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, repo.CreateGroup(segments))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls Back On Failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSegmentRepository(db)
		segments := sampleSegments()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO segments").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO segments").
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		err := repo.CreateGroup(segments)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Accra -> Kumasi")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Group Rejected", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewSegmentRepository(db)
		assert.Error(t, repo.CreateGroup(nil))
	})
}

func TestListFilters(t *testing.T) {
	segmentRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "group_id", "origin", "destination"})
	}

	t.Run("No Filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSegmentRepository(db)

		mock.ExpectQuery("WHERE is_active = true AND status != 'cancelled'").
			WillReturnRows(segmentRows())

		_, err := repo.List(models.ListFilter{})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Full Filter Binds Substrings And Date", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSegmentRepository(db)

		mock.ExpectQuery("AND origin ILIKE .* AND destination ILIKE .* AND journey_date").
			WithArgs("%Accra%", "%Kumasi%", "2026-09-10").
			WillReturnRows(segmentRows())

		_, err := repo.List(models.ListFilter{From: "Accra", To: "Kumasi", Date: "2026-09-10"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateGroupStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSegmentRepository(db)

	mock.ExpectExec("UPDATE segments SET status").
		WithArgs(models.SegmentStatusRunning, sqlmock.AnyArg(), "group-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.UpdateGroupStatus("group-1", models.SegmentStatusRunning)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSegmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_ledger WHERE group_id").
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM segments WHERE group_id").
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteGroup("group-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredGroups(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSegmentRepository(db)
	cutoff := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_ledger WHERE group_id IN").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM segments WHERE group_id IN").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := repo.DeleteExpiredGroups(cutoff)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
