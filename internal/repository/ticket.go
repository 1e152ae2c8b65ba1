package repository

import (
	"context"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error)
}
