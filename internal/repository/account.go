package repository

import (
	"context"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
)

// AccountRepository is the persistent store for accounts, keyed by email.
// Create must return domain.ErrEmailConflict when the email is taken,
// Find* must return domain.ErrAccountNotFound when nothing matches.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
}
