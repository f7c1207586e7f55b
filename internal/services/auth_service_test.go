package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/jwt"
)

type fakeUserStore struct {
	users       map[string]*models.User // by id
	lastDevice  string
	loginUserID string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return assert.AnError
		}
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, assert.AnError
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeUserStore) RecordLogin(id, device string) error {
	f.loginUserID = id
	f.lastDevice = device
	return nil
}

func newTestAuthService(store *fakeUserStore) (*AuthService, *jwt.Service) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	return NewAuthService(store, jwtService, testNotifier(), testLogger(), bcrypt.MinCost), jwtService
}

func TestRegister(t *testing.T) {
	t.Run("Creates Account And Issues Token", func(t *testing.T) {
		store := newFakeUserStore()
		svc, jwtService := newTestAuthService(store)

		resp, err := svc.Register(&models.RegisterRequest{
			Name:     "  Ama Owusu  ",
			Email:    "Ama@Example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ama Owusu", resp.User.Name)
		assert.Equal(t, "ama@example.com", resp.User.Email)
		assert.Equal(t, models.RoleUser, resp.User.Role)

		claims, err := jwtService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "ama@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)

		stored := store.users[resp.User.ID]
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	})

	t.Run("Rejects Admin Role", func(t *testing.T) {
		svc, _ := newTestAuthService(newFakeUserStore())

		_, err := svc.Register(&models.RegisterRequest{
			Name:     "Eve",
			Email:    "eve@example.com",
			Password: "s3cret-pass",
			Role:     "admin",
		})
		assert.Error(t, err)
	})

	t.Run("Vendor Role Allowed", func(t *testing.T) {
		svc, _ := newTestAuthService(newFakeUserStore())

		resp, err := svc.Register(&models.RegisterRequest{
			Name:     "Kofi Lines",
			Email:    "ops@kofilines.example",
			Password: "s3cret-pass",
			Role:     "vendor",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleVendor, resp.User.Role)
	})
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc, _ := newTestAuthService(store)

	registered, err := svc.Register(&models.RegisterRequest{
		Name:     "Ama Owusu",
		Email:    "ama@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	t.Run("Success Records Device", func(t *testing.T) {
		resp, err := svc.Login(&models.LoginRequest{
			Email:    "ama@example.com",
			Password: "s3cret-pass",
		}, "mobile / Android 12 / Chrome")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.Equal(t, "mobile / Android 12 / Chrome", store.lastDevice)
		assert.Equal(t, registered.User.ID, store.loginUserID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Login(&models.LoginRequest{
			Email:    "ama@example.com",
			Password: "wrong-pass",
		}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email or password")
	})

	t.Run("Unknown Email Same Error", func(t *testing.T) {
		_, err := svc.Login(&models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret-pass",
		}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email or password")
	})
}
