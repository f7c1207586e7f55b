package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

const segmentColumns = `id, group_id, origin, destination, journey_date, arrival_date,
	   departure_time, arrival_time, capacity, fare, bus_number, bus_type,
	   is_segment, parent_id, status, is_active, is_fully_booked, created_at, updated_at`

// SegmentRepository handles the segments table (the route catalog store)
type SegmentRepository struct {
	db *sqlx.DB
}

// NewSegmentRepository creates a new SegmentRepository
func NewSegmentRepository(db *sqlx.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// CreateGroup inserts every segment of one journey submission in a single
// transaction so a group never exists partially.
func (r *SegmentRepository) CreateGroup(segments []models.Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to create")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO segments (
			id, group_id, origin, destination, journey_date, arrival_date,
			departure_time, arrival_time, capacity, fare, bus_number, bus_type,
			is_segment, parent_id, status, is_active, is_fully_booked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	for _, s := range segments {
		_, err := tx.Exec(query,
			s.ID, s.GroupID, s.Origin, s.Destination, s.JourneyDate, s.ArrivalDate,
			s.DepartureTime, s.ArrivalTime, s.Capacity, s.Fare, s.BusNumber, s.BusType,
			s.IsSegment, s.ParentID, s.Status, s.IsActive, s.IsFullyBooked,
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment %s -> %s: %w", s.Origin, s.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit segment group: %w", err)
	}
	return nil
}

// GetByID returns a single segment by ID
func (r *SegmentRepository) GetByID(id string) (*models.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE id = $1`

	var segment models.Segment
	if err := r.db.Get(&segment, query, id); err != nil {
		return nil, err
	}
	return &segment, nil
}

// List returns active, non-cancelled segments matching the filter.
// Origin/destination are case-insensitive substring matches; the date is an
// exact calendar-day match.
func (r *SegmentRepository) List(filter models.ListFilter) ([]models.Segment, error) {
	query := `
		SELECT ` + segmentColumns + `
		FROM segments
		WHERE is_active = true AND status != 'cancelled'
	`
	args := []interface{}{}
	n := 1

	if filter.From != "" {
		query += fmt.Sprintf(" AND origin ILIKE $%d", n)
		args = append(args, "%"+filter.From+"%")
		n++
	}
	if filter.To != "" {
		query += fmt.Sprintf(" AND destination ILIKE $%d", n)
		args = append(args, "%"+filter.To+"%")
		n++
	}
	if filter.Date != "" {
		query += fmt.Sprintf(" AND journey_date = $%d", n)
		args = append(args, filter.Date)
		n++
	}

	query += " ORDER BY journey_date, departure_time"

	var segments []models.Segment
	if err := r.db.Select(&segments, query, args...); err != nil {
		return nil, err
	}
	return segments, nil
}

// GetAll returns every segment including inactive ones (admin listing)
func (r *SegmentRepository) GetAll() ([]models.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments ORDER BY journey_date DESC, departure_time`

	var segments []models.Segment
	if err := r.db.Select(&segments, query); err != nil {
		return nil, err
	}
	return segments, nil
}

// UpdateGroupStatus mirrors a status change across the whole group in one
// statement. Returns the number of segments touched.
func (r *SegmentRepository) UpdateGroupStatus(groupID string, status models.SegmentStatus) (int, error) {
	result, err := r.db.Exec(`
		UPDATE segments SET status = $1, updated_at = $2 WHERE group_id = $3
	`, status, time.Now(), groupID)
	if err != nil {
		return 0, err
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// Deactivate soft-deletes a single segment
func (r *SegmentRepository) Deactivate(id string) error {
	result, err := r.db.Exec(`
		UPDATE segments SET is_active = false, updated_at = $1 WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("segment %s not found", id)
	}
	return nil
}

// DeleteGroup removes every segment of a group and its seat ledger rows
func (r *SegmentRepository) DeleteGroup(groupID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seat_ledger WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete seat ledger for group: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM segments WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete segments for group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group delete: %w", err)
	}
	return nil
}

// DeleteExpiredGroups removes whole groups whose computed arrival time plus
// the grace period has elapsed. Returns the number of segments removed.
func (r *SegmentRepository) DeleteExpiredGroups(cutoff time.Time) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM seat_ledger WHERE group_id IN (
			SELECT group_id FROM segments
			GROUP BY group_id
			HAVING max(arrival_date + arrival_time::time) < $1
		)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired ledger rows: %w", err)
	}

	result, err := tx.Exec(`
		DELETE FROM segments WHERE group_id IN (
			SELECT group_id FROM segments
			GROUP BY group_id
			HAVING max(arrival_date + arrival_time::time) < $1
		)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired segments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit expired group sweep: %w", err)
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// CountInGroup returns the number of segments in a group
func (r *SegmentRepository) CountInGroup(groupID string) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM segments WHERE group_id = $1`, groupID); err != nil {
		return 0, err
	}
	return count, nil
}
