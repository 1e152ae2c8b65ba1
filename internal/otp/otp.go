// Package otp generates and checks six-digit one-time passcodes.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"
)

const Length = 6

var upperBound = big.NewInt(1_000_000)

// Generator draws codes from a reader, crypto/rand by default.
type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorFromReader is used by tests that need deterministic codes.
func NewGeneratorFromReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns a code uniformly distributed over 000000-999999.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.rand, upperBound)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IsValidFormat reports whether code is exactly six ASCII digits.
func IsValidFormat(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Equal compares two codes in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
