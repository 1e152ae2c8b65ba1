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

// Room for the multipart envelope and text fields on top of the file.
const multipartOverhead = 1 << 20

type ticketUsecaser interface {
	Upload(ctx context.Context, in usecase.UploadTicketInput) (*domain.Ticket, error)
	List(ctx context.Context, accountID string) ([]*domain.Ticket, error)
}

type TicketHandler struct {
	ticketUsecase ticketUsecaser
	logger        *slog.Logger
}

func NewTicketHandler(ticketUsecase ticketUsecaser, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{ticketUsecase: ticketUsecase, logger: logger.With("component", "ticket_handler")}
}

type ticketResponse struct {
	ID            string              `json:"id"`
	Destination   string              `json:"destination"`
	DepartureDate string              `json:"departureDate"`
	Status        domain.TicketStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		Destination:   t.Destination,
		DepartureDate: t.DepartureDate.Format(time.DateOnly),
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}
}

// POST /api/tickets
// multipart/form-data with destination, departureDate and file.
func (h *TicketHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxTicketSize+multipartOverhead)

	in := usecase.UploadTicketInput{AccountID: reqctx.AccountID(c.Request.Context())}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "open uploaded file", "error", err)
			c.JSON(http.StatusInternalServerError, serverError())
			return
		}
		defer f.Close()
		in.File, in.Size = f, fh.Size
	case errors.Is(err, http.ErrMissingFile):
		// Reported as a field error by the usecase.
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}
	in.Destination = c.PostForm("destination")
	in.DepartureDate = c.PostForm("departureDate")

	ticket, err := h.ticketUsecase.Upload(c.Request.Context(), in)
	if err != nil {
		if body, ok := invalidInput(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "upload ticket", "error", err)
		c.JSON(http.StatusInternalServerError, serverError())
		return
	}

	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// GET /api/tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.ticketUsecase.List(c.Request.Context(), reqctx.AccountID(c.Request.Context()))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tickets", "error", err)
		c.JSON(http.StatusInternalServerError, serverError())
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, toTicketResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"tickets": resp})
}
