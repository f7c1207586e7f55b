package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// PaymentCancellationRepository stores short-lived cancellation flags for
// payment references. Durable replacement for an in-process TTL map: the
// flags survive restarts and expire via the cron sweep.
type PaymentCancellationRepository struct {
	db *sqlx.DB
}

// NewPaymentCancellationRepository creates a new PaymentCancellationRepository
func NewPaymentCancellationRepository(db *sqlx.DB) *PaymentCancellationRepository {
	return &PaymentCancellationRepository{db: db}
}

// Mark flags a reference as cancelled for the given TTL. Re-marking an
// already-flagged reference extends the expiry.
func (r *PaymentCancellationRepository) Mark(reference string, ttl time.Duration) error {
	now := time.Now()
	_, err := r.db.Exec(`
		INSERT INTO payment_cancellations (reference, cancelled_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (reference) DO UPDATE SET expires_at = $3
	`, reference, now, now.Add(ttl))
	return err
}

// IsCancelled reports whether a reference currently carries an unexpired flag
func (r *PaymentCancellationRepository) IsCancelled(reference string) (bool, error) {
	var cancellation models.PaymentCancellation
	err := r.db.Get(&cancellation, `
		SELECT reference, cancelled_at, expires_at FROM payment_cancellations
		WHERE reference = $1 AND expires_at > $2
	`, reference, time.Now())
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired removes stale flags. Returns the number removed.
func (r *PaymentCancellationRepository) DeleteExpired() (int, error) {
	result, err := r.db.Exec(`DELETE FROM payment_cancellations WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
