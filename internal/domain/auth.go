package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailConflict      = errors.New("email already in use")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrNothingToResend    = errors.New("nothing to resend")
	ErrHashing            = errors.New("hashing failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrSessionFailed means the account was verified but no session
	// could be issued. Verification is not rolled back.
	ErrSessionFailed = errors.New("account verified, session not created")
)

// OTPTTL is how long an issued or reissued code stays valid.
const OTPTTL = 10 * time.Minute

type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          *string
	Location     *string

	// OTP and OTPExpires are set and cleared together.
	OTP        *string
	OTPExpires *time.Time
	Verified   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingVerification reports whether a code is outstanding.
func (a *Account) PendingVerification() bool {
	return !a.Verified && a.OTP != nil && a.OTPExpires != nil
}

// AccountUpdate lists the fields to change. Nil pointers are left alone.
// ClearOTP wins over OTP/OTPExpires. ExpectOTP and ExpectUnverified are
// preconditions: when the stored account no longer satisfies them the
// repository reports ErrAccountNotFound and changes nothing.
type AccountUpdate struct {
	ExpectOTP        *string
	ExpectUnverified bool

	Name       *string
	Bio        *string
	Location   *string
	OTP        *string
	OTPExpires *time.Time
	ClearOTP   bool
	Verified   *bool
}

// NormalizeEmail is applied at creation and on every lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidationError carries field-level detail for ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
