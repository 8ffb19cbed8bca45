package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signPayload(t *testing.T, secret, msgID, timestamp string, payload []byte) string {
	t.Helper()

	key, err := base64.StdEncoding.DecodeString(secret[len("whsec_"):])
	assert.NoError(t, err)

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestNewWebhookVerifier(t *testing.T) {
	t.Run("accepts a prefixed base64 secret", func(t *testing.T) {
		verifier, err := NewWebhookVerifier(testSecret, 5*time.Minute)
		assert.NoError(t, err)
		assert.NotNil(t, verifier)
	})

	t.Run("rejects an empty secret", func(t *testing.T) {
		_, err := NewWebhookVerifier("", 5*time.Minute)
		assert.Error(t, err)
	})

	t.Run("rejects a secret that is not base64", func(t *testing.T) {
		_, err := NewWebhookVerifier("whsec_!!!not-base64!!!", 5*time.Minute)
		assert.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	payload := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)

	newVerifier := func(t *testing.T) *WebhookVerifier {
		verifier, err := NewWebhookVerifier(testSecret, 5*time.Minute)
		assert.NoError(t, err)
		return verifier
	}

	t.Run("accepts a valid signature", func(t *testing.T) {
		verifier := newVerifier(t)
		header := signPayload(t, testSecret, "msg_1", timestamp, payload)

		err := verifier.verifyAt(now, "msg_1", timestamp, header, payload)

		assert.NoError(t, err)
	})

	t.Run("accepts a valid entry among several", func(t *testing.T) {
		verifier := newVerifier(t)
		valid := signPayload(t, testSecret, "msg_1", timestamp, payload)
		header := "v1,Zm9vYmFy " + valid

		err := verifier.verifyAt(now, "msg_1", timestamp, header, payload)

		assert.NoError(t, err)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		verifier := newVerifier(t)
		header := signPayload(t, testSecret, "msg_1", timestamp, payload)

		err := verifier.verifyAt(now, "msg_1", timestamp, header, []byte(`{"type":"user.deleted"}`))

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects a signature for another message id", func(t *testing.T) {
		verifier := newVerifier(t)
		header := signPayload(t, testSecret, "msg_1", timestamp, payload)

		err := verifier.verifyAt(now, "msg_2", timestamp, header, payload)

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects unknown signature versions", func(t *testing.T) {
		verifier := newVerifier(t)
		header := signPayload(t, testSecret, "msg_1", timestamp, payload)

		err := verifier.verifyAt(now, "msg_1", timestamp, "v2"+header[2:], payload)

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects missing headers", func(t *testing.T) {
		verifier := newVerifier(t)

		err := verifier.verifyAt(now, "", timestamp, "v1,abc", payload)
		assert.ErrorIs(t, err, ErrMissingHeaders)

		err = verifier.verifyAt(now, "msg_1", timestamp, "", payload)
		assert.ErrorIs(t, err, ErrMissingHeaders)
	})

	t.Run("rejects a stale timestamp", func(t *testing.T) {
		verifier := newVerifier(t)
		old := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
		header := signPayload(t, testSecret, "msg_1", old, payload)

		err := verifier.verifyAt(now, "msg_1", old, header, payload)

		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("rejects a timestamp from the future", func(t *testing.T) {
		verifier := newVerifier(t)
		future := strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10)
		header := signPayload(t, testSecret, "msg_1", future, payload)

		err := verifier.verifyAt(now, "msg_1", future, header, payload)

		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("rejects a non-numeric timestamp", func(t *testing.T) {
		verifier := newVerifier(t)

		err := verifier.verifyAt(now, "msg_1", "yesterday", "v1,abc", payload)

		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})
}
