package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-service/internal/domain"
)

// TicketFilter selects tickets by creation time and sector.
type TicketFilter struct {
	CreatedFrom time.Time
	CreatedTo   time.Time
	SectorID    *string
	Limit       int
}

// TicketRepository reads tickets for SLA reporting.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListCreatedBetween(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ticketColumns is the SELECT list read by scanTicket, in scan order.
const ticketColumns = `id, sector_id, team, priority, status, tags, created_at,
               first_in_progress_at, resolved_at, explicit_deadline`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListCreatedBetween returns tickets with created_at in [CreatedFrom, CreatedTo).
func (r *ticketRepository) ListCreatedBetween(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"created_at >= $1", "created_at < $2"}
	args := []any{filter.CreatedFrom, filter.CreatedTo}

	if filter.SectorID != nil {
		args = append(args, *filter.SectorID)
		clauses = append(clauses, fmt.Sprintf("sector_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at ASC, id ASC`,
		ticketColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.SectorID,
		&ticket.Team,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.FirstInProgressAt,
		&ticket.ResolvedAt,
		&ticket.ExplicitDeadline,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
