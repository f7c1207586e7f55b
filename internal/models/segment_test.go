package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRouteRequestValidate(t *testing.T) {
	valid := func() CreateRouteRequest {
		return CreateRouteRequest{
			Origin:            "Accra",
			Destination:       "Kumasi",
			IntermediateStops: []string{"Nkawkaw"},
			JourneyDate:       "2026-09-10",
			DepartureTime:     "06:00",
			ArrivalTime:       "10:30",
			Capacity:          40,
			Fare:              150,
			BusNumber:         "GR-1234-20",
		}
	}

	t.Run("Valid", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("Bad Time Format", func(t *testing.T) {
		req := valid()
		req.ArrivalTime = "10:30pm"
		assert.Error(t, req.Validate())
	})

	t.Run("Same Endpoints Case Insensitive", func(t *testing.T) {
		req := valid()
		req.Destination = "ACCRA"
		assert.Error(t, req.Validate())
	})

	t.Run("Blank Stop", func(t *testing.T) {
		req := valid()
		req.IntermediateStops = []string{" "}
		assert.Error(t, req.Validate())
	})

	t.Run("Fare Count Mismatch", func(t *testing.T) {
		req := valid()
		req.SegmentFares = []float64{100, 150, 200}
		assert.Error(t, req.Validate())
	})
}

func TestSegmentDepartureAt(t *testing.T) {
	seg := Segment{
		JourneyDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		ArrivalDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
		DepartureTime: "23:15",
		ArrivalTime:   "05:40",
	}

	departure, err := seg.DepartureAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 10, 23, 15, 0, 0, time.UTC), departure)

	arrival, err := seg.ArrivalAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 11, 5, 40, 0, 0, time.UTC), arrival)

	seg.DepartureTime = "nonsense"
	_, err = seg.DepartureAt(time.UTC)
	assert.Error(t, err)
}

func TestParseSegmentStatus(t *testing.T) {
	status, err := ParseSegmentStatus("Running")
	require.NoError(t, err)
	assert.Equal(t, SegmentStatusRunning, status)

	_, err = ParseSegmentStatus("paused")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	role, err = ParseRole("VENDOR")
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, role)

	_, err = ParseRole("admin")
	assert.Error(t, err, "admin accounts are provisioned out of band")
}
