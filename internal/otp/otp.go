// Package otp stores one-time codes keyed by phone number. Each phone holds at
// most one live code; issuing replaces it, it expires after a TTL and a
// successful Consume removes it.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidCode is returned when no live code matches.
var ErrInvalidCode = errors.New("invalid otp")

// Registry holds the active code per phone.
type Registry interface {
	// Issue stores code for phone, replacing any previous one.
	Issue(ctx context.Context, phone, code string) error
	// Consume succeeds only if the live code for phone equals code exactly,
	// and deletes it in the same step.
	Consume(ctx context.Context, phone, code string) error
}

// Generate returns a random numeric code of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("otp length must be positive")
	}
	buf := make([]byte, length)
	ten := big.NewInt(10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
