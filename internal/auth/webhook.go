package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHeaders   = errors.New("missing webhook signature headers")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

const webhookSecretPrefix = "whsec_"

// WebhookVerifier validates Svix-style webhook signatures: the secret is a
// base64 string prefixed with "whsec_", the signed content is
// "<id>.<timestamp>.<payload>" and the signature header carries one or more
// space-separated "v1,<base64 mac>" entries.
type WebhookVerifier struct {
	key       []byte
	tolerance time.Duration
}

func NewWebhookVerifier(secret string, tolerance time.Duration) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, errors.New("webhook secret is required")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, webhookSecretPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}

	return &WebhookVerifier{key: key, tolerance: tolerance}, nil
}

// Verify checks the timestamp freshness and the HMAC of the payload.
func (v *WebhookVerifier) Verify(msgID, timestamp, signatureHeader string, payload []byte) error {
	return v.verifyAt(time.Now(), msgID, timestamp, signatureHeader, payload)
}

func (v *WebhookVerifier) verifyAt(now time.Time, msgID, timestamp, signatureHeader string, payload []byte) error {
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrStaleTimestamp, timestamp)
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrStaleTimestamp
	}

	expected := v.sign(msgID, timestamp, payload)

	// The header may list several versioned signatures during key rotation.
	for _, entry := range strings.Fields(signatureHeader) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}

		provided, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}

		if hmac.Equal(provided, expected) {
			return nil
		}
	}

	return ErrInvalidSignature
}

func (v *WebhookVerifier) sign(msgID, timestamp string, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
