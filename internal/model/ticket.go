package model

import "time"

// TicketStatus is the payment state of a ticket.
type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

// TicketType is a ticket category.  IsRemote marks online-only
// attendance and IncludesHotel marks tickets that come with
// accommodation.  Rows live in the `ticket_types` table.
type TicketType struct {
	ID            uint64    // ticket_types.id
	Name          string    // ticket_types.name
	PriceCents    uint32    // ticket_types.price_cents
	IsRemote      bool      // ticket_types.is_remote
	IncludesHotel bool      // ticket_types.includes_hotel
	CreatedAt     time.Time // ticket_types.created_at
	UpdatedAt     time.Time // ticket_types.updated_at
}

// Ticket is the purchase record attached to an enrollment.  A ticket
// is issued as RESERVED and becomes PAID once the payment is settled
// by an external system.  TicketType is populated by repository
// methods that join ticket_types.
type Ticket struct {
	ID           uint64       // tickets.id
	EnrollmentID uint64       // tickets.enrollment_id
	TicketTypeID uint64       // tickets.ticket_type_id
	Status       TicketStatus // tickets.status
	TicketType   TicketType   // joined ticket_types row
	CreatedAt    time.Time    // tickets.created_at
	UpdatedAt    time.Time    // tickets.updated_at
}

// AllowsHotel reports whether the ticket entitles its holder to a
// hotel room: it must be paid, in-person and include accommodation.
func (t Ticket) AllowsHotel() bool {
	return t.Status == TicketStatusPaid && !t.TicketType.IsRemote && t.TicketType.IncludesHotel
}
