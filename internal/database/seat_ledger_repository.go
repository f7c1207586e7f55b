package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// SeatLedgerRepository holds the booked-seat set for each segment group in a
// single table, one row per (group_id, seat_no). The reconciled seat set for
// a group is simply a select over this table: there is no per-segment copy
// to reconcile and no authoritative-segment selection.
//
// Claims run inside a transaction holding a per-group advisory lock, so two
// concurrent claims for the same group serialize. A UNIQUE(group_id, seat_no)
// constraint backs this up at the storage level.
type SeatLedgerRepository struct {
	db *sqlx.DB
}

// NewSeatLedgerRepository creates a new SeatLedgerRepository
func NewSeatLedgerRepository(db *sqlx.DB) *SeatLedgerRepository {
	return &SeatLedgerRepository{db: db}
}

// Resolve returns the booked-seat set for a group in claim order.
func (r *SeatLedgerRepository) Resolve(groupID string) ([]string, error) {
	var seats []string
	err := r.db.Select(&seats, `
		SELECT seat_no FROM seat_ledger
		WHERE group_id = $1
		ORDER BY claimed_at, seat_no
	`, groupID)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

// ResolveMany returns the booked-seat sets for several groups at once.
func (r *SeatLedgerRepository) ResolveMany(groupIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT group_id, seat_no FROM seat_ledger
		WHERE group_id IN (?)
		ORDER BY claimed_at, seat_no
	`, groupIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, seat string
		if err := rows.Scan(&groupID, &seat); err != nil {
			return nil, err
		}
		result[groupID] = append(result[groupID], seat)
	}
	return result, rows.Err()
}

// Claim atomically adds seats to a group's booked set on behalf of a booking.
// The whole claim succeeds or none of it does: if any requested seat is
// already present the claim fails with SeatConflictError naming the seats,
// and if the set would exceed capacity it fails with ErrCapacityExceeded.
func (r *SeatLedgerRepository) Claim(groupID, bookingID string, seats []string, capacity int) error {
	if len(seats) == 0 {
		return fmt.Errorf("no seats to claim")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize read-modify-write per group for the duration of the
	// transaction. Released automatically at commit/rollback.
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, groupID); err != nil {
		return fmt.Errorf("failed to acquire group lock: %w", err)
	}

	var current []string
	if err := tx.Select(&current, `SELECT seat_no FROM seat_ledger WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to read seat ledger: %w", err)
	}

	taken := make(map[string]struct{}, len(current))
	for _, s := range current {
		taken[s] = struct{}{}
	}
	var conflicts []string
	for _, s := range seats {
		if _, ok := taken[s]; ok {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) > 0 {
		return &models.SeatConflictError{Seats: conflicts}
	}

	if len(current)+len(seats) > capacity {
		return models.ErrCapacityExceeded
	}

	now := time.Now()
	for _, seat := range seats {
		_, err := tx.Exec(`
			INSERT INTO seat_ledger (group_id, seat_no, booking_id, claimed_at)
			VALUES ($1, $2, $3, $4)
		`, groupID, seat, bookingID, now)
		if err != nil {
			if isUniqueViolation(err) {
				return &models.SeatConflictError{Seats: []string{seat}}
			}
			return fmt.Errorf("failed to claim seat %s: %w", seat, err)
		}
	}

	full := len(current)+len(seats) >= capacity
	if _, err := tx.Exec(`
		UPDATE segments SET is_fully_booked = $1, updated_at = $2 WHERE group_id = $3
	`, full, now, groupID); err != nil {
		return fmt.Errorf("failed to update fully-booked flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seat claim: %w", err)
	}
	return nil
}

// ReleaseBooking returns a booking's seats to the pool. Returns the number
// of seats released; zero is not an error (already released).
func (r *SeatLedgerRepository) ReleaseBooking(bookingID string) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin release transaction: %w", err)
	}
	defer tx.Rollback()

	var groupIDs []string
	if err := tx.Select(&groupIDs, `
		SELECT DISTINCT group_id FROM seat_ledger WHERE booking_id = $1
	`, bookingID); err != nil {
		return 0, fmt.Errorf("failed to look up booking seats: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM seat_ledger WHERE booking_id = $1`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}
	released, _ := result.RowsAffected()

	// A release always leaves room, so clear the flag on affected groups.
	now := time.Now()
	for _, groupID := range groupIDs {
		if _, err := tx.Exec(`
			UPDATE segments SET is_fully_booked = false, updated_at = $1 WHERE group_id = $2
		`, now, groupID); err != nil {
			return 0, fmt.Errorf("failed to clear fully-booked flag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seat release: %w", err)
	}
	return int(released), nil
}

// DeleteOrphaned removes ledger rows whose group no longer has any
// segments. Safety net behind group deletes.
func (r *SeatLedgerRepository) DeleteOrphaned() (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM seat_ledger
		WHERE group_id NOT IN (SELECT DISTINCT group_id FROM segments)
	`)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// DeleteForCancelledBookings removes claims still held by cancelled
// bookings. A failed release during cancellation leaves such rows in a
// live group, where DeleteOrphaned never reaches them.
func (r *SeatLedgerRepository) DeleteForCancelledBookings() (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM seat_ledger
		WHERE booking_id IN (SELECT id FROM bookings WHERE status = $1)
	`, models.BookingStatusCancelled)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
