// seed inserts demo accounts into the local dev database: one verified
// account that can log in and one still waiting for its code.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/travel-buddy/config"
	"github.com/ErlanBelekov/travel-buddy/internal/credential"
	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/travel-buddy/internal/otp"
)

const seedPassword = "travel-buddy-dev"

type accountSpec struct {
	name     string
	email    string
	verified bool
}

var accounts = []accountSpec{
	{"Verified Traveller", "verified@test.local", true},
	{"Pending Traveller", "pending@test.local", false},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewAccountRepository(pool)
	hasher := credential.NewHasher(config.HashCostFor("local"))
	codes := otp.NewGenerator()

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for _, spec := range accounts {
		a := &domain.Account{
			Name:         spec.name,
			Email:        spec.email,
			PasswordHash: hash,
			Verified:     spec.verified,
		}
		if !spec.verified {
			code, err := codes.Generate()
			if err != nil {
				log.Fatalf("generate otp: %v", err)
			}
			expires := time.Now().Add(domain.OTPTTL)
			a.OTP, a.OTPExpires = &code, &expires
		}

		created, err := repo.Create(ctx, a)
		if errors.Is(err, domain.ErrEmailConflict) {
			fmt.Printf("skip     %s (already exists)\n", spec.email)
			continue
		}
		if err != nil {
			log.Fatalf("create %s: %v", spec.email, err)
		}

		if a.OTP != nil {
			fmt.Printf("created  %s  id=%s  otp=%s\n", created.Email, created.ID, *a.OTP)
		} else {
			fmt.Printf("created  %s  id=%s\n", created.Email, created.ID)
		}
	}

	fmt.Printf("\nPassword for all seeded accounts: %s\n", seedPassword)
}
