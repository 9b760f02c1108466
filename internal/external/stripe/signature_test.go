package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	t.Run("accepts a valid signature", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now)
		assert.NoError(t, VerifySignature(payload, header, testSecret, 5*time.Minute, now))
	})

	t.Run("accepts additional v1 entries when one matches", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now) + ",v1=deadbeef"
		assert.NoError(t, VerifySignature(payload, header, testSecret, 5*time.Minute, now))
	})

	t.Run("rejects a signature from the wrong secret", func(t *testing.T) {
		header := signPayload(t, payload, "whsec_other", now)
		err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now)
		tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
		err := VerifySignature(tampered, header, testSecret, 5*time.Minute, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("rejects a replayed signature outside the tolerance window", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now.Add(-10*time.Minute))
		err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("rejects malformed headers", func(t *testing.T) {
		for _, header := range []string{"", "t=abc,v1=00", "v1=00", fmt.Sprintf("t=%d", now.Unix())} {
			err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
			require.ErrorIs(t, err, ErrBadSignature, "header %q", header)
		}
	})
}

func TestParseEvent(t *testing.T) {
	receivedAt := time.Now().UTC()

	t.Run("checkout session event references intent indirectly", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"data": {"object": {"id": "cs_123", "payment_intent": "pi_123"}}
		}`)

		event, err := ParseEvent(payload, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ProviderEventID)
		assert.Equal(t, "checkout.session.completed", event.Type)
		assert.Equal(t, "pi_123", event.IntentID)
		assert.Equal(t, receivedAt, event.ReceivedAt)
	})

	t.Run("payment_intent event carries the intent as object id", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_2",
			"type": "payment_intent.payment_failed",
			"data": {"object": {"id": "pi_456"}}
		}`)

		event, err := ParseEvent(payload, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, "pi_456", event.IntentID)
	})

	t.Run("event without any intent reference is rejected", func(t *testing.T) {
		payload := []byte(`{"id": "evt_3", "type": "customer.created", "data": {"object": {}}}`)

		_, err := ParseEvent(payload, receivedAt)
		assert.ErrorIs(t, err, ErrNoIntentID)
	})

	t.Run("invalid json is rejected", func(t *testing.T) {
		_, err := ParseEvent([]byte("{not json"), receivedAt)
		assert.Error(t, err)
	})
}
