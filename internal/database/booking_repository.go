package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

const bookingColumns = `id, user_id, segment_id, group_id, seats, transaction_id, total_amount,
	   passenger_name, passenger_email, passenger_phone, payment_method, status,
	   created_at, updated_at`

// BookingRepository handles the bookings table (the booking ledger)
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking row
func (r *BookingRepository) Create(b *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, segment_id, group_id, seats, transaction_id, total_amount,
			passenger_name, passenger_email, passenger_phone, payment_method, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(query,
		b.ID, b.UserID, b.SegmentID, b.GroupID, b.Seats, b.TransactionID, b.TotalAmount,
		b.PassengerName, b.PassengerEmail, b.PassengerPhone, b.PaymentMethod, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID returns a single booking by ID
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	if err := r.db.Get(&booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByUserID returns a user's bookings, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetAll returns every booking, newest first (admin view)
func (r *BookingRepository) GetAll() ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus transitions a booking's status with a guard on the current
// status so illegal transitions never race past the state machine.
func (r *BookingRepository) UpdateStatus(id string, from, to models.BookingStatus) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4
	`, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

// CompleteForFinishedSegments marks confirmed bookings completed once their
// segment's status is completed. Returns the number updated.
func (r *BookingRepository) CompleteForFinishedSegments() (int, error) {
	result, err := r.db.Exec(`
		UPDATE bookings b
		SET status = 'completed', updated_at = $1
		FROM segments s
		WHERE b.segment_id = s.id AND b.status = 'confirmed' AND s.status = 'completed'
	`, time.Now())
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// GetConfirmedDepartingOn returns confirmed bookings for segments departing
// on the given calendar day, joined with the itinerary for reminder emails.
func (r *BookingRepository) GetConfirmedDepartingOn(day time.Time) ([]models.BookingWithSegment, error) {
	query := `
		SELECT b.id, b.user_id, b.segment_id, b.group_id, b.seats, b.transaction_id,
			   b.total_amount, b.passenger_name, b.passenger_email, b.passenger_phone,
			   b.payment_method, b.status, b.created_at, b.updated_at,
			   s.origin, s.destination, s.journey_date, s.departure_time, s.bus_number
		FROM bookings b
		JOIN segments s ON b.segment_id = s.id
		WHERE b.status = 'confirmed' AND s.journey_date = $1
		ORDER BY s.departure_time
	`

	var bookings []models.BookingWithSegment
	if err := r.db.Select(&bookings, query, day.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Delete removes a booking row (admin only; cancellation is the normal path)
func (r *BookingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}
