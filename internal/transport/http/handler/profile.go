package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/reqctx"
	"github.com/ErlanBelekov/travel-buddy/internal/usecase"
	"github.com/gin-gonic/gin"
)

type profileUsecaser interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, in usecase.UpdateProfileInput) (*domain.Account, error)
}

type ProfileHandler struct {
	profileUsecase profileUsecaser
	logger         *slog.Logger
}

func NewProfileHandler(profileUsecase profileUsecaser, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profileUsecase: profileUsecase, logger: logger.With("component", "profile_handler")}
}

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileResponse(a *domain.Account) profileResponse {
	return profileResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Bio:       a.Bio,
		Location:  a.Location,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
	}
}

// GET /api/user/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	account, err := h.profileUsecase.Get(c.Request.Context(), reqctx.AccountID(c.Request.Context()))
	if err != nil {
		h.respondError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(account))
}

// PATCH /api/user/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var in usecase.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	account, err := h.profileUsecase.Update(c.Request.Context(), reqctx.AccountID(c.Request.Context()), in)
	if err != nil {
		h.respondError(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(account))
}

func (h *ProfileHandler) respondError(c *gin.Context, op string, err error) {
	if body, ok := invalidInput(err); ok {
		c.JSON(http.StatusBadRequest, body)
		return
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errAccountNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, serverError())
}
