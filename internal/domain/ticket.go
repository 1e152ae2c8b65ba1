package domain

import "time"

type TicketStatus string

const (
	TicketPending  TicketStatus = "PENDING"
	TicketApproved TicketStatus = "APPROVED"
	TicketRejected TicketStatus = "REJECTED"
)

type Ticket struct {
	ID            string
	AccountID     string
	Destination   string
	DepartureDate time.Time
	ObjectKey     string
	Status        TicketStatus
	CreatedAt     time.Time
}
