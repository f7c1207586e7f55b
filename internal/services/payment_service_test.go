package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/roadlink/bus-booking-backend/internal/config"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

type fakeCancellationStore struct {
	mu    sync.Mutex
	flags map[string]time.Time
}

func newFakeCancellationStore() *fakeCancellationStore {
	return &fakeCancellationStore{flags: make(map[string]time.Time)}
}

func (f *fakeCancellationStore) Mark(reference string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[reference] = time.Now().Add(ttl)
	return nil
}

func (f *fakeCancellationStore) IsCancelled(reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expiry, ok := f.flags[reference]
	return ok && expiry.After(time.Now()), nil
}

func newTestPaymentService(baseURL string, store *fakeCancellationStore) *PaymentService {
	cfg := &config.PaymentConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
	return NewPaymentService(cfg, store, 30*time.Minute, testMetrics, testLogger())
}

func TestPaymentStatus(t *testing.T) {
	t.Run("Proxies Provider", func(t *testing.T) {
		var gotAuth, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(models.ProviderStatusResponse{
				Reference: "ref-1",
				Status:    "pending",
			})
		}))
		defer srv.Close()

		svc := newTestPaymentService(srv.URL, newFakeCancellationStore())
		status, err := svc.Status("ref-1")
		require.NoError(t, err)
		assert.Equal(t, "pending", status.Status)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Equal(t, "/collections/ref-1", gotPath)
	})

	t.Run("Cancelled Reference Short-Circuits", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		store := newFakeCancellationStore()
		svc := newTestPaymentService(srv.URL, store)
		require.NoError(t, svc.Cancel("ref-1"))

		status, err := svc.Status("ref-1")
		require.NoError(t, err)
		assert.Equal(t, "cancelled", status.Status)
		assert.False(t, called, "provider must not be contacted for cancelled references")
	})

	t.Run("Provider Error Becomes Upstream Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("provider exploded"))
		}))
		defer srv.Close()

		svc := newTestPaymentService(srv.URL, newFakeCancellationStore())
		_, err := svc.Status("ref-1")
		require.Error(t, err)

		var upstream *models.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadGateway, upstream.Status)
	})
}

func TestPaymentSubmitOTP(t *testing.T) {
	t.Run("Forwards OTP", func(t *testing.T) {
		var gotBody models.SubmitOTPRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(models.ProviderStatusResponse{Reference: gotBody.Reference, Status: "success"})
		}))
		defer srv.Close()

		svc := newTestPaymentService(srv.URL, newFakeCancellationStore())
		status, err := svc.SubmitOTP(&models.SubmitOTPRequest{Reference: "ref-1", OTP: "123456"})
		require.NoError(t, err)
		assert.Equal(t, "success", status.Status)
		assert.Equal(t, "123456", gotBody.OTP)
	})

	t.Run("Cancelled Reference Rejected", func(t *testing.T) {
		store := newFakeCancellationStore()
		svc := newTestPaymentService("http://provider.invalid", store)
		require.NoError(t, svc.Cancel("ref-1"))

		_, err := svc.SubmitOTP(&models.SubmitOTPRequest{Reference: "ref-1", OTP: "123456"})
		assert.ErrorIs(t, err, models.ErrPaymentCancelled)
	})
}

func TestPaymentChannels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"channels": []models.ProviderChannel{
				{Code: "mtn", Name: "MTN Mobile Money", Type: "mobile_money", IsActive: true},
				{Code: "gcb", Name: "GCB Bank", Type: "bank", IsActive: true},
			},
		})
	}))
	defer srv.Close()

	svc := newTestPaymentService(srv.URL, newFakeCancellationStore())
	channels, err := svc.Channels()
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "mtn", channels[0].Code)
}

func TestPaymentUnconfigured(t *testing.T) {
	svc := newTestPaymentService("", newFakeCancellationStore())
	_, err := svc.Status("ref-1")
	assert.Error(t, err)
}
