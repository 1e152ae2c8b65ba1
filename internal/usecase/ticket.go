package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/metrics"
	"github.com/ErlanBelekov/travel-buddy/internal/repository"
	"github.com/google/uuid"
)

const (
	MaxTicketSize    = 10 << 20
	departureLayout  = "2006-01-02"
	ticketPathPrefix = "tickets"
)

var ticketContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// BlobSink stores uploaded ticket files.
type BlobSink interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

type TicketUsecase struct {
	tickets repository.TicketRepository
	blobs   BlobSink
}

func NewTicketUsecase(tickets repository.TicketRepository, blobs BlobSink) *TicketUsecase {
	return &TicketUsecase{tickets: tickets, blobs: blobs}
}

type UploadTicketInput struct {
	AccountID     string
	Destination   string
	DepartureDate string
	File          io.Reader // nil when missing
	Size          int64
}

// Upload stores the ticket file and records a PENDING ticket for review.
// The content type is sniffed from the bytes, not taken from the client.
func (u *TicketUsecase) Upload(ctx context.Context, in UploadTicketInput) (*domain.Ticket, error) {
	fields := map[string]string{}

	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		fields["destination"] = "Destination required"
	}
	departure, err := time.Parse(departureLayout, strings.TrimSpace(in.DepartureDate))
	if err != nil {
		fields["departureDate"] = "Departure date must be YYYY-MM-DD"
	}
	if in.File == nil || in.Size <= 0 {
		fields["file"] = "Ticket file required"
	} else if in.Size > MaxTicketSize {
		fields["file"] = "Ticket file must be at most 10MB"
	}
	if len(fields) > 0 {
		metrics.TicketUploadsTotal.WithLabelValues("invalid").Inc()
		return nil, &domain.ValidationError{Fields: fields}
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(in.File, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read ticket file: %w", err)
	}
	head = head[:n]

	contentType := strings.ToLower(strings.SplitN(http.DetectContentType(head), ";", 2)[0])
	ext, ok := ticketContentTypes[contentType]
	if !ok {
		metrics.TicketUploadsTotal.WithLabelValues("invalid").Inc()
		return nil, &domain.ValidationError{Fields: map[string]string{"file": "Ticket must be a PDF, JPEG or PNG"}}
	}

	key := fmt.Sprintf("%s/%s/%s%s", ticketPathPrefix, in.AccountID, uuid.NewString(), ext)
	body := io.MultiReader(bytes.NewReader(head), in.File)
	if err := u.blobs.Put(ctx, key, body, in.Size, contentType); err != nil {
		metrics.TicketUploadsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("store ticket file: %w", err)
	}

	t, err := u.tickets.Create(ctx, &domain.Ticket{
		AccountID:     in.AccountID,
		Destination:   destination,
		DepartureDate: departure,
		ObjectKey:     key,
		Status:        domain.TicketPending,
	})
	if err != nil {
		metrics.TicketUploadsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	metrics.TicketUploadsTotal.WithLabelValues("stored").Inc()
	return t, nil
}

func (u *TicketUsecase) List(ctx context.Context, accountID string) ([]*domain.Ticket, error) {
	tickets, err := u.tickets.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
