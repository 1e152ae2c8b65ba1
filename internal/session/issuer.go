package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}

// JWTIssuer mints HS256 bearer tokens. The auth middleware verifies them
// with the same key.
type JWTIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewJWTIssuer(key []byte, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{key: key, ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) CreateSession(_ context.Context, accountID, email string) (*Session, error) {
	if accountID == "" {
		return nil, errors.New("create session: empty account id")
	}

	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":   accountID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}
	return &Session{Token: signed, AccountID: accountID, ExpiresAt: exp}, nil
}
