package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// SegmentStore is the slice of the segment repository the route service needs.
type SegmentStore interface {
	CreateGroup(segments []models.Segment) error
	GetByID(id string) (*models.Segment, error)
	UpdateGroupStatus(groupID string, status models.SegmentStatus) (int, error)
	Deactivate(id string) error
	DeleteGroup(groupID string) error
}

// RouteService materializes multi-stop journeys. A route A->D with stops
// B and C becomes one primary record A->D plus one child record per
// intermediate stop, all sharing a group id because they ride the same
// physical vehicle. Seat state lives on the group, never per record.
type RouteService struct {
	segments SegmentStore
	logger   *logrus.Logger
	loc      *time.Location
}

// NewRouteService creates a new route service
func NewRouteService(segments SegmentStore, logger *logrus.Logger, loc *time.Location) *RouteService {
	return &RouteService{
		segments: segments,
		logger:   logger,
		loc:      loc,
	}
}

// CreateRoute builds and persists the segment group for a journey. All
// records are inserted in one transaction so a group is never partial.
func (s *RouteService) CreateRoute(req *models.CreateRouteRequest) ([]models.Segment, error) {
	if err := req.Validate(); err != nil {
		return nil, &models.ValidationError{Err: err}
	}

	journeyDate, err := time.ParseInLocation("2006-01-02", req.JourneyDate, s.loc)
	if err != nil {
		return nil, &models.ValidationError{Err: fmt.Errorf("journey_date must be YYYY-MM-DD")}
	}
	arrivalDate := journeyDate
	if req.ArrivalDate != "" {
		arrivalDate, err = time.ParseInLocation("2006-01-02", req.ArrivalDate, s.loc)
		if err != nil {
			return nil, &models.ValidationError{Err: fmt.Errorf("arrival_date must be YYYY-MM-DD")}
		}
		if arrivalDate.Before(journeyDate) {
			return nil, &models.ValidationError{Err: fmt.Errorf("arrival_date must not precede journey_date")}
		}
	}

	busType := models.BusType(req.BusType)
	if busType == "" {
		busType = models.BusTypeNormal
	}

	groupID := uuid.New().String()
	primaryID := uuid.New().String()
	now := time.Now().In(s.loc)

	base := models.Segment{
		GroupID:       groupID,
		JourneyDate:   journeyDate,
		ArrivalDate:   arrivalDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Capacity:      req.Capacity,
		BusNumber:     req.BusNumber,
		BusType:       busType,
		Status:        models.SegmentStatusNotStarted,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	fareFor := func(i int) float64 {
		if len(req.SegmentFares) > 0 {
			return req.SegmentFares[i]
		}
		return req.Fare
	}

	primary := base
	primary.ID = primaryID
	primary.Origin = req.Origin
	primary.Destination = req.Destination
	primary.Fare = fareFor(len(req.IntermediateStops))
	primary.IsSegment = false

	group := make([]models.Segment, 0, len(req.IntermediateStops)+1)
	group = append(group, primary)

	for i, stop := range req.IntermediateStops {
		child := base
		child.ID = uuid.New().String()
		child.Origin = req.Origin
		child.Destination = stop
		child.Fare = fareFor(i)
		child.IsSegment = true
		child.ParentID = &primaryID
		group = append(group, child)
	}

	if err := s.segments.CreateGroup(group); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"group_id":    groupID,
		"origin":      req.Origin,
		"destination": req.Destination,
		"segments":    len(group),
	}).Info("Route created")

	return group, nil
}

// UpdateStatus changes the status of the whole group a segment belongs
// to. The journey is one vehicle; no leg can be running while another is
// still not started.
func (s *RouteService) UpdateStatus(segmentID string, status models.SegmentStatus) (int, error) {
	segment, err := s.segments.GetByID(segmentID)
	if err != nil {
		return 0, err
	}
	updated, err := s.segments.UpdateGroupStatus(segment.GroupID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update group status: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"group_id": segment.GroupID,
		"status":   status,
		"updated":  updated,
	}).Info("Route status updated")
	return updated, nil
}

// Delete removes a segment. Deleting the primary record removes the whole
// group with its ledger rows; deleting a child record only deactivates
// that leg, since the vehicle itself still runs.
func (s *RouteService) Delete(segmentID string) error {
	segment, err := s.segments.GetByID(segmentID)
	if err != nil {
		return err
	}
	if segment.IsSegment {
		return s.segments.Deactivate(segmentID)
	}
	if err := s.segments.DeleteGroup(segment.GroupID); err != nil {
		return fmt.Errorf("failed to delete route group: %w", err)
	}
	s.logger.WithField("group_id", segment.GroupID).Info("Route deleted")
	return nil
}
