package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	AssigneeID *string
	ClientID   *string
	Limit      int
	Offset     int
}

// TicketMutator applies in-memory changes to a ticket loaded under a row lock
// and returns the audit entries describing them. Returning an error aborts the
// whole transaction; no partial update is ever observable.
type TicketMutator func(ticket *domain.Ticket) ([]domain.AuditLogEntry, error)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateWithLogs(ctx context.Context, id string, mutate TicketMutator) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, title, description, status, priority, category,
               started_at, total_time_spent, sla_response_deadline, sla_resolution_deadline,
               creator_id, assignee_id, client_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, title, description, status, priority, category,
            sla_response_deadline, sla_resolution_deadline, creator_id, assignee_id, client_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.SLAResponseDeadline,
		ticket.SLAResolutionDeadline,
		ticket.CreatorID,
		ticket.AssigneeID,
		ticket.ClientID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicketRow(r.pool.QueryRow(ctx, query, id))
}

// UpdateWithLogs executes a read-modify-write cycle against a single ticket
// row under SELECT ... FOR UPDATE, so two racing updates serialize and the
// state machine's idempotence guarantees hold. Field updates and audit
// entries commit together or not at all.
func (r *ticketRepository) UpdateWithLogs(ctx context.Context, id string, mutate TicketMutator) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 FOR UPDATE`
	ticket, err := scanTicketRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	entries, err := mutate(ticket)
	if err != nil {
		return nil, err
	}

	const update = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, category=$5,
            started_at=$6, total_time_spent=$7, assignee_id=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.StartedAt,
		ticket.TotalTimeSpent,
		ticket.AssigneeID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, err
	}

	const insertLog = `
        INSERT INTO audit_logs (ticket_id, actor_id, message)
        VALUES ($1,$2,$3)`
	for i := range entries {
		entries[i].TicketID = ticket.ID
		if _, err := tx.Exec(ctx, insertLog, entries[i].TicketID, entries[i].ActorID, entries[i].Message); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isRetryableTxError(err) {
			return nil, apperrors.NewConflict("ticket was modified concurrently, retry the update")
		}
		return nil, err
	}
	return ticket, nil
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure and deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.StartedAt,
		&ticket.TotalTimeSpent,
		&ticket.SLAResponseDeadline,
		&ticket.SLAResolutionDeadline,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.ClientID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Category,
			&ticket.StartedAt,
			&ticket.TotalTimeSpent,
			&ticket.SLAResponseDeadline,
			&ticket.SLAResolutionDeadline,
			&ticket.CreatorID,
			&ticket.AssigneeID,
			&ticket.ClientID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
