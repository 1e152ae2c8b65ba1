package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/repository"
	"github.com/go-playground/validator/v10"
)

type ProfileUsecase struct {
	accounts repository.AccountRepository
	validate *validator.Validate
}

func NewProfileUsecase(accounts repository.AccountRepository) *ProfileUsecase {
	return &ProfileUsecase{accounts: accounts, validate: newValidator()}
}

// UpdateProfileInput is a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string `json:"name"     validate:"omitnil,min=1,max=100"`
	Bio      *string `json:"bio"      validate:"omitnil,max=500"`
	Location *string `json:"location" validate:"omitnil,max=120"`
}

var profileMessages = fieldMessages{
	"name.min":     "Name required",
	"name.max":     "Name must be at most 100 characters",
	"bio.max":      "Bio must be at most 500 characters",
	"location.max": "Location must be at most 120 characters",
}

func (u *ProfileUsecase) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	a, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return a, nil
}

func (u *ProfileUsecase) Update(ctx context.Context, accountID string, in UpdateProfileInput) (*domain.Account, error) {
	in.Name = trimPtr(in.Name)
	in.Bio = trimPtr(in.Bio)
	in.Location = trimPtr(in.Location)

	if err := u.validate.Struct(in); err != nil {
		return nil, validationError(err, profileMessages)
	}

	a, err := u.accounts.Update(ctx, accountID, domain.AccountUpdate{
		Name:     in.Name,
		Bio:      in.Bio,
		Location: in.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return a, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
