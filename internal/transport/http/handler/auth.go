package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/session"
	"github.com/ErlanBelekov/travel-buddy/internal/usecase"
	"github.com/gin-gonic/gin"
)

const resendMessage = "If the account exists and is awaiting verification, a new code has been sent"

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupResult, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*session.Session, error)
	Resend(ctx context.Context, in usecase.ResendInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*session.Session, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type sessionResponse struct {
	OK        bool   `json:"ok"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{OK: true, Token: s.Token, ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339)}
}

// POST /api/auth/signup
// Accepts a urlencoded/multipart form or a JSON document; both bind into
// the same SignupInput and are validated once by the usecase.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in usecase.SignupInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	res, err := h.authUsecase.Signup(c.Request.Context(), in)
	if err != nil {
		if body, ok := invalidInput(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		if errors.Is(err, domain.ErrEmailConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInUse})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
		c.JSON(http.StatusInternalServerError, serverError())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"userId":  res.AccountID,
		"message": res.Message,
	})
}

// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var in usecase.VerifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	sess, err := h.authUsecase.Verify(c.Request.Context(), in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, newSessionResponse(sess))
	case errors.Is(err, domain.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidOTP})
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": errOTPExpired})
	case errors.Is(err, domain.ErrSessionFailed):
		// The account is verified; the client can sign in separately.
		h.logger.ErrorContext(c.Request.Context(), "verify otp: create session", "error", err)
		body := serverError()
		body["verified"] = true
		c.JSON(http.StatusInternalServerError, body)
	default:
		h.logger.ErrorContext(c.Request.Context(), "verify otp", "error", err)
		c.JSON(http.StatusInternalServerError, serverError())
	}
}

// POST /api/auth/resend-otp
// Always returns 200 so the response reveals nothing about the account.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var in usecase.ResendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	if err := h.authUsecase.Resend(c.Request.Context(), in); err != nil && !errors.Is(err, domain.ErrNothingToResend) {
		h.logger.ErrorContext(c.Request.Context(), "resend otp", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": resendMessage})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in usecase.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	sess, err := h.authUsecase.Login(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, serverError())
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(sess))
}
