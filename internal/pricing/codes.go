package pricing

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const bookingNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingNumber produces a human-readable booking code of the form
// PREFIX-XXXXXXXX (8 uppercase alphanumerics), retrying until exists reports
// the candidate as unused. Uniqueness is the only postcondition; the loop
// has no retry bound because the keyspace is far larger than any plausible
// reservation table.
func GenerateBookingNumber(ctx context.Context, prefix string, exists func(ctx context.Context, number string) (bool, error)) (string, error) {
	for {
		suffix, err := randomString(8, bookingNumberAlphabet)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		number := prefix + "-" + suffix

		taken, err := exists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check booking number uniqueness: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
}

// GenerateVerificationCode produces a 6-digit zero-padded code. Codes are
// short-lived and only compared within a single reservation, so no
// uniqueness check is needed.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func randomString(length int, alphabet string) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
