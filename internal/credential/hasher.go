// Package credential hashes and verifies account passwords with bcrypt.
package credential

import (
	"fmt"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Hasher binds a cost factor resolved at startup.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int {
	return h.cost
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	return Hash(plaintext, h.cost)
}

func (h *Hasher) Verify(plaintext, hashed string) bool {
	return Verify(plaintext, hashed)
}

// Hash returns a salted bcrypt hash. Any failure wraps domain.ErrHashing.
func Hash(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty plaintext", domain.ErrHashing)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: cost %d out of range", domain.ErrHashing, cost)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(b), nil
}

func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// CostOf reports the cost a hash was produced with, or 0 if it is malformed.
func CostOf(hashed string) int {
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		return 0
	}
	return cost
}
