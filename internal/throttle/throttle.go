// Package throttle limits how often a verification code can be reissued
// for the same email.
package throttle

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Unlimited never throttles. Used when no Redis is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisCooldown allows one resend per email per cooldown window.
type RedisCooldown struct {
	client   redis.UniversalClient
	prefix   string
	cooldown time.Duration
}

func NewRedisCooldown(client redis.UniversalClient, prefix string, cooldown time.Duration) *RedisCooldown {
	if prefix == "" {
		prefix = "otp_resend"
	}
	return &RedisCooldown{client: client, prefix: prefix, cooldown: cooldown}
}

func (c *RedisCooldown) Allow(ctx context.Context, email string) (bool, error) {
	if c.client == nil {
		return false, errors.New("redis cooldown: nil client")
	}
	if c.cooldown <= 0 {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, c.key(email), 1, c.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("redis cooldown: %w", err)
	}
	return ok, nil
}

// key hashes the address so raw emails never land in Redis.
func (c *RedisCooldown) key(email string) string {
	sum := sha256.Sum256([]byte(domain.NormalizeEmail(email)))
	return fmt.Sprintf("%s:%x", c.prefix, sum[:16])
}
