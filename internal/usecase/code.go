package usecase

import (
	"crypto/rand"
	"math/big"
)

const (
	// PickupCodeLength is the number of characters in a pickup code.
	PickupCodeLength = 8
	pickupCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces candidate pickup codes.
type CodeGenerator func() (string, error)

// RandomPickupCode draws an uppercase alphanumeric code from crypto/rand.
func RandomPickupCode() (string, error) {
	limit := big.NewInt(int64(len(pickupCodeChars)))
	buf := make([]byte, PickupCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = pickupCodeChars[n.Int64()]
	}
	return string(buf), nil
}
