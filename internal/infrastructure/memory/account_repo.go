// Package memory holds in-process repositories. They enforce the same
// constraints as the Postgres ones and back tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/google/uuid"
)

type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
	now     func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(a.Email)
	if _, taken := r.byEmail[email]; taken {
		return nil, domain.ErrEmailConflict
	}

	stored := clone(a)
	stored.ID = uuid.NewString()
	stored.Email = email
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.byID[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return clone(stored), nil
}

func (r *AccountRepository) Update(_ context.Context, id string, u domain.AccountUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if u.ExpectOTP != nil && (a.OTP == nil || *a.OTP != *u.ExpectOTP) {
		return nil, domain.ErrAccountNotFound
	}
	if u.ExpectUnverified && a.Verified {
		return nil, domain.ErrAccountNotFound
	}

	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Bio != nil {
		a.Bio = strPtr(*u.Bio)
	}
	if u.Location != nil {
		a.Location = strPtr(*u.Location)
	}
	if u.ClearOTP {
		a.OTP, a.OTPExpires = nil, nil
	} else if u.OTP != nil && u.OTPExpires != nil {
		code, exp := *u.OTP, *u.OTPExpires
		a.OTP, a.OTPExpires = &code, &exp
	}
	if u.Verified != nil {
		a.Verified = *u.Verified
	}
	a.UpdatedAt = r.now()

	return clone(a), nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func clone(a *domain.Account) *domain.Account {
	c := *a
	if a.Bio != nil {
		c.Bio = strPtr(*a.Bio)
	}
	if a.Location != nil {
		c.Location = strPtr(*a.Location)
	}
	if a.OTP != nil {
		c.OTP = strPtr(*a.OTP)
	}
	if a.OTPExpires != nil {
		exp := *a.OTPExpires
		c.OTPExpires = &exp
	}
	return &c
}

func strPtr(s string) *string {
	return &s
}
