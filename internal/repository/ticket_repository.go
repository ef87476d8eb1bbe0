package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// TicketRepo provides access to tickets and ticket types.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketTypeColumns = `id, name, price_cents, is_remote, includes_hotel, created_at, updated_at`

// ListTicketTypes returns every ticket type ordered by id.
func (r *TicketRepo) ListTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	const q = `SELECT ` + ticketTypeColumns + ` FROM ticket_types ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.TicketType, 0)
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.PriceCents, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *TicketRepo) FindTicketType(ctx context.Context, id uint64) (*model.TicketType, error) {
	const q = `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE id = ?`
	var tt model.TicketType
	err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(
		&tt.ID, &tt.Name, &tt.PriceCents, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// FindTicketByEnrollment returns the enrollment's ticket joined with its
// type, or nil.
func (r *TicketRepo) FindTicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error) {
	const q = `SELECT t.id, t.enrollment_id, t.ticket_type_id, t.status, t.created_at, t.updated_at,
                      tt.id, tt.name, tt.price_cents, tt.is_remote, tt.includes_hotel, tt.created_at, tt.updated_at
               FROM tickets t
               JOIN ticket_types tt ON tt.id = t.ticket_type_id
               WHERE t.enrollment_id = ?`
	var t model.Ticket
	var status string
	err := conn(ctx, r.db).QueryRowContext(ctx, q, enrollmentID).Scan(
		&t.ID, &t.EnrollmentID, &t.TicketTypeID, &status, &t.CreatedAt, &t.UpdatedAt,
		&t.TicketType.ID, &t.TicketType.Name, &t.TicketType.PriceCents, &t.TicketType.IsRemote,
		&t.TicketType.IncludesHotel, &t.TicketType.CreatedAt, &t.TicketType.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Status = model.TicketStatus(status)
	return &t, nil
}

// CreateTicket inserts t and fills in its generated ID and timestamps.
// A second ticket for the same enrollment yields ErrDuplicate.
func (r *TicketRepo) CreateTicket(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (enrollment_id, ticket_type_id, status) VALUES (?, ?, ?)`
	db := conn(ctx, r.db)
	res, err := db.ExecContext(ctx, q, t.EnrollmentID, t.TicketTypeID, string(t.Status))
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM tickets WHERE id = ?`
	return db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}
