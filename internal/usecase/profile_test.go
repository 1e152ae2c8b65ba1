package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/infrastructure/memory"
	"github.com/ErlanBelekov/travel-buddy/internal/usecase"
)

func strp(s string) *string { return &s }

func seedAccount(t *testing.T, repo *memory.AccountRepository) *domain.Account {
	t.Helper()
	a, err := repo.Create(context.Background(), &domain.Account{
		Name: "Test User", Email: "test@example.com", PasswordHash: "hash", Verified: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	repo := memory.NewAccountRepository()
	a := seedAccount(t, repo)
	uc := usecase.NewProfileUsecase(repo)

	updated, err := uc.Update(context.Background(), a.ID, usecase.UpdateProfileInput{
		Bio:      strp("  Backpacking through Asia  "),
		Location: strp("Lisbon"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Test User" {
		t.Errorf("name changed to %q", updated.Name)
	}
	if updated.Bio == nil || *updated.Bio != "Backpacking through Asia" {
		t.Errorf("bio = %v", updated.Bio)
	}
	if updated.Location == nil || *updated.Location != "Lisbon" {
		t.Errorf("location = %v", updated.Location)
	}
}

func TestUpdateProfile_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		in    usecase.UpdateProfileInput
		field string
	}{
		{"blank name", usecase.UpdateProfileInput{Name: strp("   ")}, "name"},
		{"long bio", usecase.UpdateProfileInput{Bio: strp(strings.Repeat("a", 501))}, "bio"},
		{"long location", usecase.UpdateProfileInput{Location: strp(strings.Repeat("a", 121))}, "location"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewAccountRepository()
			a := seedAccount(t, repo)

			_, err := usecase.NewProfileUsecase(repo).Update(context.Background(), a.ID, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Fields[tc.field] == "" {
				t.Fatalf("want field error on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestUpdateProfile_UnknownAccount(t *testing.T) {
	_, err := usecase.NewProfileUsecase(memory.NewAccountRepository()).
		Update(context.Background(), "missing", usecase.UpdateProfileInput{Name: strp("X")})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("want ErrAccountNotFound, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	repo := memory.NewAccountRepository()
	a := seedAccount(t, repo)

	got, err := usecase.NewProfileUsecase(repo).Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "test@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}
