package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ticket-hub/internal/domain"
)

// TicketRepository define el contrato de persistencia para tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	// ListByCustomer resuelve la propiedad transitiva ticket -> orden ->
	// cliente directamente en la consulta.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket domain.Ticket) error
	Delete(ctx context.Context, id int64) error
}

// PgTicketRepository implementa TicketRepository usando pgxpool.
type PgTicketRepository struct {
	pool *pgxpool.Pool
}

func NewPgTicketRepository(pool *pgxpool.Pool) *PgTicketRepository {
	return &PgTicketRepository{pool: pool}
}

const ticketColumns = `
	id, passport_name, facebook_name, member_code, priority_date,
	fst_pt, snd_pt, trd_pt, status, event_id, order_id
`

func (r *PgTicketRepository) Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	const query = `
		INSERT INTO tickets (passport_name, facebook_name, member_code,
			priority_date, fst_pt, snd_pt, trd_pt, status, event_id, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	if ticket.Status == "" {
		ticket.Status = "Pending"
	}
	err := r.pool.QueryRow(ctx, query,
		ticket.PassportName,
		ticket.FacebookName,
		ticket.MemberCode,
		ticket.PriorityDate,
		ticket.FstPt,
		ticket.SndPt,
		ticket.TrdPt,
		ticket.Status,
		ticket.EventID,
		ticket.OrderID,
	).Scan(&ticket.ID)
	return ticket, err
}

func (r *PgTicketRepository) GetByID(ctx context.Context, id int64) (domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	var t domain.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.PassportName,
		&t.FacebookName,
		&t.MemberCode,
		&t.PriorityDate,
		&t.FstPt,
		&t.SndPt,
		&t.TrdPt,
		&t.Status,
		&t.EventID,
		&t.OrderID,
	)
	return t, err
}

func (r *PgTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PgTicketRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	const query = `
		SELECT t.id, t.passport_name, t.facebook_name, t.member_code,
			t.priority_date, t.fst_pt, t.snd_pt, t.trd_pt, t.status,
			t.event_id, t.order_id
		FROM tickets t
		JOIN orders o ON o.id = t.order_id
		WHERE o.customer_id = $1
		ORDER BY t.id
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PgTicketRepository) Update(ctx context.Context, ticket domain.Ticket) error {
	const query = `
		UPDATE tickets
		SET passport_name = $2, facebook_name = $3, member_code = $4,
			priority_date = $5, fst_pt = $6, snd_pt = $7, trd_pt = $8,
			status = $9, event_id = $10, order_id = $11
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.PassportName,
		ticket.FacebookName,
		ticket.MemberCode,
		ticket.PriorityDate,
		ticket.FstPt,
		ticket.SndPt,
		ticket.TrdPt,
		ticket.Status,
		ticket.EventID,
		ticket.OrderID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgTicketRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tickets WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.PassportName,
			&t.FacebookName,
			&t.MemberCode,
			&t.PriorityDate,
			&t.FstPt,
			&t.SndPt,
			&t.TrdPt,
			&t.Status,
			&t.EventID,
			&t.OrderID,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
