package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, account_id, destination, departure_date, object_key, status, created_at`

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (account_id, destination, departure_date, object_key, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		t.AccountID, t.Destination, t.DepartureDate, t.ObjectKey, t.Status,
	)
	created, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return created, nil
}

func (r *TicketRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.AccountID, &t.Destination, &t.DepartureDate, &t.ObjectKey, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &t, nil
}
