package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/email"
	"github.com/ErlanBelekov/travel-buddy/internal/metrics"
	"github.com/ErlanBelekov/travel-buddy/internal/otp"
	"github.com/ErlanBelekov/travel-buddy/internal/repository"
	"github.com/ErlanBelekov/travel-buddy/internal/session"
	"github.com/go-playground/validator/v10"
)

const (
	signupMessage = "OTP sent to your email"

	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
	maxReissueDraws  = 5
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

type CodeGenerator interface {
	Generate() (string, error)
}

type OTPNotifier interface {
	SendOTP(ctx context.Context, to, code string) email.Result
}

type SessionIssuer interface {
	CreateSession(ctx context.Context, accountID, email string) (*session.Session, error)
}

type ResendLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

type AuthUsecase struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher
	codes    CodeGenerator
	notifier OTPNotifier
	sessions SessionIssuer
	limiter  ResendLimiter
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthUsecase(
	accounts repository.AccountRepository,
	hasher PasswordHasher,
	codes CodeGenerator,
	notifier OTPNotifier,
	sessions SessionIssuer,
	limiter ResendLimiter,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		accounts: accounts,
		hasher:   hasher,
		codes:    codes,
		notifier: notifier,
		sessions: sessions,
		limiter:  limiter,
		validate: newValidator(),
		logger:   logger.With("component", "auth_usecase"),
		now:      time.Now,
	}
}

// WithClock replaces time.Now. Tests only.
func (u *AuthUsecase) WithClock(now func() time.Time) *AuthUsecase {
	u.now = now
	return u
}

// SignupInput is the shape both the form and JSON transports decode into.
type SignupInput struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type SignupResult struct {
	AccountID string
	Message   string
}

var signupMessages = fieldMessages{
	"name":         "Name required",
	"email":        "Invalid email",
	"password":     "Password must be at least 8 characters",
	"password.max": "Password must be at most 72 characters",
}

// Signup creates an unverified account and emails it a verification code.
// Email delivery is best-effort: a failed dispatch still returns success.
func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)

	if err := u.validateSignup(in); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	_, err := u.accounts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailConflict
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("find account: %w", err)
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	code, expires, err := u.issueCode()
	if err != nil {
		return nil, err
	}

	created, err := u.accounts.Create(ctx, &domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		OTP:          &code,
		OTPExpires:   &expires,
		Verified:     false,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailConflict) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrEmailConflict
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	u.dispatch(ctx, created.ID, created.Email, code)

	return &SignupResult{AccountID: created.ID, Message: signupMessage}, nil
}

func (u *AuthUsecase) validateSignup(in SignupInput) error {
	if err := u.validate.Struct(in); err != nil {
		return validationError(err, signupMessages)
	}
	if len(in.Password) > maxPasswordBytes {
		return &domain.ValidationError{Fields: map[string]string{"password": signupMessages["password.max"]}}
	}
	return nil
}

type VerifyInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Verify consumes a code, activates the account and opens a session.
// If the session cannot be issued the account stays verified and the
// error wraps domain.ErrSessionFailed.
func (u *AuthUsecase) Verify(ctx context.Context, in VerifyInput) (*session.Session, error) {
	if !otp.IsValidFormat(in.OTP) {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidOTP
	}

	account, err := u.accounts.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := authorizeActivation(account, in.OTP, u.now()); err != nil {
		if errors.Is(err, domain.ErrOTPExpired) {
			metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		} else {
			metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}

	verified := true
	updated, err := u.accounts.Update(ctx, account.ID, domain.AccountUpdate{
		ExpectOTP: &in.OTP,
		ClearOTP:  true,
		Verified:  &verified,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Lost a race with another verification or a resend.
			metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidOTP
		}
		return nil, fmt.Errorf("activate account: %w", err)
	}
	metrics.OTPVerificationsTotal.WithLabelValues("verified").Inc()

	sess, err := u.sessions.CreateSession(ctx, updated.ID, updated.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionFailed, err)
	}
	return sess, nil
}

// authorizeActivation decides whether code activates account at now.
// A missing account, an account with nothing pending and a wrong code all
// yield the same ErrInvalidOTP; only a matching code past its expiry is
// reported as ErrOTPExpired.
func authorizeActivation(account *domain.Account, code string, now time.Time) error {
	if account == nil || !account.PendingVerification() {
		return domain.ErrInvalidOTP
	}
	if !otp.Equal(*account.OTP, code) {
		return domain.ErrInvalidOTP
	}
	if !now.Before(*account.OTPExpires) {
		return domain.ErrOTPExpired
	}
	return nil
}

type ResendInput struct {
	Email string `json:"email"`
}

// Resend reissues a code for a pending account. Unknown, verified and
// throttled addresses all return domain.ErrNothingToResend, which callers
// must treat exactly like success.
func (u *AuthUsecase) Resend(ctx context.Context, in ResendInput) error {
	addr := domain.NormalizeEmail(in.Email)

	account, err := u.accounts.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.OTPResendsTotal.WithLabelValues("skipped").Inc()
			return domain.ErrNothingToResend
		}
		return fmt.Errorf("find account: %w", err)
	}
	if account.Verified {
		metrics.OTPResendsTotal.WithLabelValues("skipped").Inc()
		return domain.ErrNothingToResend
	}

	allowed, err := u.limiter.Allow(ctx, addr)
	if err != nil {
		u.logger.WarnContext(ctx, "resend limiter unavailable, allowing", "error", err)
		allowed = true
	}
	if !allowed {
		metrics.OTPResendsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrNothingToResend
	}

	code, expires, err := u.reissueCode(account.OTP)
	if err != nil {
		return err
	}
	if _, err := u.accounts.Update(ctx, account.ID, domain.AccountUpdate{
		ExpectUnverified: true,
		OTP:              &code,
		OTPExpires:       &expires,
	}); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Verified in the meantime.
			metrics.OTPResendsTotal.WithLabelValues("skipped").Inc()
			return domain.ErrNothingToResend
		}
		return fmt.Errorf("store otp: %w", err)
	}

	metrics.OTPResendsTotal.WithLabelValues("reissued").Inc()
	u.dispatch(ctx, account.ID, account.Email, code)
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials of a verified account. Unknown email, wrong
// password and unverified account are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*session.Session, error) {
	account, err := u.accounts.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Spend the same bcrypt time as a real comparison.
			u.hasher.Verify(in.Password, u.timingHash())
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !u.hasher.Verify(in.Password, account.PasswordHash) || !account.Verified {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := u.sessions.CreateSession(ctx, account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return sess, nil
}

func (u *AuthUsecase) issueCode() (string, time.Time, error) {
	code, err := u.codes.Generate()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, u.now().Add(domain.OTPTTL), nil
}

// reissueCode draws a code that differs from previous.
func (u *AuthUsecase) reissueCode(previous *string) (string, time.Time, error) {
	for range maxReissueDraws {
		code, expires, err := u.issueCode()
		if err != nil {
			return "", time.Time{}, err
		}
		if previous == nil || !otp.Equal(code, *previous) {
			return code, expires, nil
		}
	}
	return "", time.Time{}, errors.New("generate otp: kept repeating the previous code")
}

func (u *AuthUsecase) dispatch(ctx context.Context, accountID, to, code string) {
	res := u.notifier.SendOTP(ctx, to, code)
	if !res.Success {
		u.logger.WarnContext(ctx, "otp dispatch failed (non-fatal)", "account_id", accountID, "error", res.Err)
	}
}

func (u *AuthUsecase) timingHash() string {
	u.dummyOnce.Do(func() {
		h, err := u.hasher.Hash("timing-equalisation-password")
		if err != nil {
			u.logger.Error("prepare timing hash", "error", err)
			return
		}
		u.dummyHash = h
	})
	return u.dummyHash
}
