package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

const userColumns = `id, name, email, password_hash, phone, role,
	   last_login_at, last_login_device, created_at, updated_at`

// UserRepository handles the users table
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account
func (r *UserRepository) Create(u *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(query, u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s is already registered", u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns a single user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a single user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	var user models.User
	if err := r.db.Get(&user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// RecordLogin stamps the last successful login and the device it came from
func (r *UserRepository) RecordLogin(id, device string) error {
	_, err := r.db.Exec(`
		UPDATE users SET last_login_at = $1, last_login_device = $2, updated_at = $1 WHERE id = $3
	`, time.Now(), device, id)
	return err
}
