package utils

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateDiscountCode returns a random 8-character code over an alphabet with
// the ambiguous characters (0/O, 1/I) removed.
func GenerateDiscountCode() (string, error) {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// MustGenerateDiscountCode panics on entropy failure.
func MustGenerateDiscountCode() string {
	code, err := GenerateDiscountCode()
	if err != nil {
		panic("failed to generate discount code: " + err.Error())
	}
	return code
}
