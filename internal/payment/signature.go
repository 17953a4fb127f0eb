package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the provider's webhook signature in the form
// "t=<unix-timestamp>,v1=<base64-hmac>", timestamp first.
const SignatureHeader = "x-signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks the x-signature header against the exact raw request
// body: HMAC-SHA256(secret, "<timestamp>.<body>") base64-encoded must equal
// the v1 value. A malformed header counts as an invalid signature.
func VerifySignature(secret string, body []byte, header string) error {
	ts, v1, err := parseSignatureHeader(header)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return ErrInvalidSignature
	}
	return nil
}

func parseSignatureHeader(header string) (ts, v1 string, err error) {
	parts := strings.Split(header, ",")
	if len(parts) < 2 {
		return "", "", errors.New("expected t and v1 parts")
	}
	ts, ok := strings.CutPrefix(parts[0], "t=")
	if !ok || ts == "" {
		return "", "", errors.New("missing timestamp")
	}
	v1, ok = strings.CutPrefix(parts[1], "v1=")
	if !ok || v1 == "" {
		return "", "", errors.New("missing v1 hash")
	}
	return ts, v1, nil
}
