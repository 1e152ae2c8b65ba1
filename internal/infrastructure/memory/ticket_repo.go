package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/google/uuid"
)

type TicketRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{}
}

func (r *TicketRepository) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *t
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.tickets = append(r.tickets, stored)

	out := stored
	return &out, nil
}

func (r *TicketRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Ticket
	for i := range r.tickets {
		if r.tickets[i].AccountID == accountID {
			t := r.tickets[i]
			out = append(out, &t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
