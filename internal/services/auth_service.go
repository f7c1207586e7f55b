package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/jwt"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	RecordLogin(id, device string) error
}

// AuthService handles registration, login and token issuance.
type AuthService struct {
	users      UserStore
	jwtService *jwt.Service
	notifier   *NotificationService
	logger     *logrus.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtService *jwt.Service, notifier *NotificationService, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		notifier:   notifier,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account and sends the welcome email. Admin accounts
// cannot be created here.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")

	go s.notifier.Registration(user.Email, user.Name)

	return s.issueToken(user)
}

// Login verifies credentials and records the login device.
func (s *AuthService) Login(req *models.LoginRequest, device string) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		// Same failure for unknown email and bad password.
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.users.RecordLogin(user.ID, device); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"device":  device,
	}).Info("User logged in")

	return s.issueToken(user)
}

// GetUser returns the account for an authenticated user id.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.users.GetByID(id)
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %s: %w", user.ID, err)
	}
	token, err := s.jwtService.GenerateToken(userID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
