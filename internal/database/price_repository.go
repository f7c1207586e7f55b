package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

const priceColumns = `id, origin, destination, bus_type, price, is_active, created_at, updated_at`

// PriceRepository handles the prices (fare table) rows
type PriceRepository struct {
	db *sqlx.DB
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db *sqlx.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Create inserts a fare-table entry
func (r *PriceRepository) Create(p *models.Price) error {
	query := `
		INSERT INTO prices (id, origin, destination, bus_type, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(query, p.ID, p.Origin, p.Destination, p.BusType, p.Price, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("price for %s -> %s (%s) already exists", p.Origin, p.Destination, p.BusType)
		}
		return fmt.Errorf("failed to create price: %w", err)
	}
	return nil
}

// GetByID returns a single fare-table entry
func (r *PriceRepository) GetByID(id string) (*models.Price, error) {
	query := `SELECT ` + priceColumns + ` FROM prices WHERE id = $1`

	var price models.Price
	if err := r.db.Get(&price, query, id); err != nil {
		return nil, err
	}
	return &price, nil
}

// GetAllActive returns the whole active fare table
func (r *PriceRepository) GetAllActive() ([]models.Price, error) {
	query := `SELECT ` + priceColumns + ` FROM prices WHERE is_active = true ORDER BY origin, destination`

	var prices []models.Price
	if err := r.db.Select(&prices, query); err != nil {
		return nil, err
	}
	return prices, nil
}

// Query returns one page of fare-table rows plus the total row count.
// The query must already be normalized; the sort column is whitelisted there.
func (r *PriceRepository) Query(q *models.PriceQuery) ([]models.Price, int, error) {
	where := ""
	args := []interface{}{}
	if q.Search != "" {
		where = ` WHERE (origin ILIKE $1 OR destination ILIKE $1)`
		args = append(args, "%"+q.Search+"%")
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM prices`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prices: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+priceColumns+` FROM prices%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, q.Sort, q.Order, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	var prices []models.Price
	if err := r.db.Select(&prices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query prices: %w", err)
	}
	return prices, total, nil
}

// Update applies the non-nil fields of the request
func (r *PriceRepository) Update(id string, req *models.UpdatePriceRequest) error {
	query := `
		UPDATE prices SET
			origin = COALESCE($1, origin),
			destination = COALESCE($2, destination),
			bus_type = COALESCE($3, bus_type),
			price = COALESCE($4, price),
			is_active = COALESCE($5, is_active),
			updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(query, req.Origin, req.Destination, req.BusType, req.Price, req.IsActive, time.Now(), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("price %s not found", id)
	}
	return nil
}

// Delete removes a fare-table entry
func (r *PriceRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM prices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("price %s not found", id)
	}
	return nil
}
