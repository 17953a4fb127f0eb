package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casafunko/orders-service/internal/payment"
)

func signBody(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + string(body)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"payment","data":{"id":"PAY1","status":"approved"}}`)
	ts := "1700000000"

	tests := []struct {
		name    string
		header  string
		body    []byte
		wantErr bool
	}{
		{
			name:   "valid_signature",
			header: "t=" + ts + ",v1=" + signBody(secret, ts, body),
			body:   body,
		},
		{
			name:    "signature_over_wrong_body",
			header:  "t=" + ts + ",v1=" + signBody(secret, ts, []byte(`{"tampered":true}`)),
			body:    body,
			wantErr: true,
		},
		{
			name:    "wrong_secret",
			header:  "t=" + ts + ",v1=" + signBody("whsec_other", ts, body),
			body:    body,
			wantErr: true,
		},
		{
			name:    "timestamp_not_covered",
			header:  "t=1700000001,v1=" + signBody(secret, ts, body),
			body:    body,
			wantErr: true,
		},
		{
			name:    "malformed_header",
			header:  "nonsense",
			body:    body,
			wantErr: true,
		},
		{
			name:    "missing_v1_part",
			header:  "t=" + ts,
			body:    body,
			wantErr: true,
		},
		{
			name:    "swapped_parts",
			header:  "v1=" + signBody(secret, ts, body) + ",t=" + ts,
			body:    body,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := payment.VerifySignature(secret, tt.body, tt.header)
			if tt.wantErr {
				assert.True(t, errors.Is(err, payment.ErrInvalidSignature))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
