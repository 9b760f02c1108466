package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursepay/internal/domain/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntent(t *testing.T) {
	t.Run("sends form-encoded params with auth header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "4999", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, "learner@example.com", r.PostForm.Get("receipt_email"))
			assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
			assert.Equal(t, "c-1", r.PostForm.Get("metadata[course_id]"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "pi_1",
				"client_secret": "pi_1_secret",
				"amount": 4999,
				"currency": "usd",
				"status": "requires_payment_method"
			}`))
		}))
		defer server.Close()

		client := New(server.URL, "sk_test_123", server.Client())
		intent, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{
			AmountMinor:   4999,
			Currency:      "usd",
			CustomerEmail: "learner@example.com",
			Metadata:      map[string]string{"course_id": "c-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
		assert.Equal(t, "pi_1_secret", intent.ClientSecret)
		assert.Equal(t, gateway.IntentPending, intent.Status, "in-flight statuses normalize to pending")
	})

	t.Run("maps 4xx to rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"message":"card declined"}}`))
		}))
		defer server.Close()

		client := New(server.URL, "sk_test_123", server.Client())
		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{AmountMinor: 4999, Currency: "usd"})
		assert.ErrorIs(t, err, gateway.ErrRejected)
	})

	t.Run("maps 5xx to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := New(server.URL, "sk_test_123", server.Client())
		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{AmountMinor: 4999, Currency: "usd"})
		assert.ErrorIs(t, err, gateway.ErrUnavailable)
	})

	t.Run("maps transport failure to unavailable", func(t *testing.T) {
		client := New("http://127.0.0.1:1", "sk_test_123", nil)
		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{AmountMinor: 4999, Currency: "usd"})
		assert.ErrorIs(t, err, gateway.ErrUnavailable)
	})
}

func TestRetrieveIntent(t *testing.T) {
	t.Run("expands latest charge for the receipt url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/payment_intents/pi_1", r.URL.Path)
			assert.Equal(t, "latest_charge", r.URL.Query().Get("expand[]"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "pi_1",
				"amount": 4999,
				"currency": "usd",
				"status": "succeeded",
				"latest_charge": {"receipt_url": "https://pay.stripe.com/receipts/r1"}
			}`))
		}))
		defer server.Close()

		client := New(server.URL, "sk_test_123", server.Client())
		intent, err := client.RetrieveIntent(context.Background(), "pi_1")

		require.NoError(t, err)
		assert.Equal(t, gateway.IntentSucceeded, intent.Status)
		assert.Equal(t, "https://pay.stripe.com/receipts/r1", intent.ReceiptURL)
	})

	t.Run("maps 404 to intent not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := New(server.URL, "sk_test_123", server.Client())
		_, err := client.RetrieveIntent(context.Background(), "pi_missing")
		assert.ErrorIs(t, err, gateway.ErrIntentNotFound)
	})
}

func TestCancelIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_1/cancel", r.URL.Path)
		w.Write([]byte(`{"id": "pi_1", "status": "canceled"}`))
	}))
	defer server.Close()

	client := New(server.URL, "sk_test_123", server.Client())
	assert.NoError(t, client.CancelIntent(context.Background(), "pi_1"))
}

func TestMapStatus(t *testing.T) {
	cases := map[string]gateway.IntentStatus{
		"succeeded":               gateway.IntentSucceeded,
		"canceled":                gateway.IntentCanceled,
		"failed":                  gateway.IntentFailed,
		"expired":                 gateway.IntentExpired,
		"processing":              gateway.IntentPending,
		"requires_action":         gateway.IntentPending,
		"requires_payment_method": gateway.IntentPending,
	}
	for raw, want := range cases {
		assert.Equal(t, want, mapStatus(raw), "status %q", raw)
	}
}
