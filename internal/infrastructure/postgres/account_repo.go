package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const accountColumns = `id, name, email, password_hash, bio, location,
		       otp, otp_expires, verified, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	row := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email))
	return scanAccount(row)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanAccount(row)
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (name, email, password_hash, otp, otp_expires, verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		a.Name,
		domain.NormalizeEmail(a.Email),
		a.PasswordHash,
		a.OTP,
		a.OTPExpires,
		a.Verified,
	)

	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailConflict
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, u domain.AccountUpdate) (*domain.Account, error) {
	args := []any{id}
	set := []string{"updated_at = NOW()"}
	where := "id = $1"
	if u.ExpectOTP != nil {
		args = append(args, *u.ExpectOTP)
		where += " AND otp = $2"
	}
	if u.ExpectUnverified {
		where += " AND verified = false"
	}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Bio != nil {
		add("bio", *u.Bio)
	}
	if u.Location != nil {
		add("location", *u.Location)
	}
	if u.ClearOTP {
		set = append(set, "otp = NULL", "otp_expires = NULL")
	} else if u.OTP != nil && u.OTPExpires != nil {
		add("otp", *u.OTP)
		add("otp_expires", *u.OTPExpires)
	}
	if u.Verified != nil {
		add("verified", *u.Verified)
	}

	query := fmt.Sprintf(`
		UPDATE accounts SET %s
		WHERE %s
		RETURNING %s`, strings.Join(set, ", "), where, accountColumns)

	row := r.pool.QueryRow(ctx, query, args...)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Bio, &a.Location,
		&a.OTP, &a.OTPExpires, &a.Verified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
