package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// SLAPolicyRepository persists the (plan, priority) policy table.
type SLAPolicyRepository interface {
	Get(ctx context.Context, plan domain.Plan, priority domain.TicketPriority) (*domain.SLAPolicy, error)
	ListAll(ctx context.Context) ([]domain.SLAPolicy, error)
	Upsert(ctx context.Context, policy *domain.SLAPolicy) error
}

type slaPolicyRepository struct {
	pool *pgxpool.Pool
}

// NewSLAPolicyRepository builds repository.
func NewSLAPolicyRepository(pool *pgxpool.Pool) SLAPolicyRepository {
	return &slaPolicyRepository{pool: pool}
}

func (r *slaPolicyRepository) Get(ctx context.Context, plan domain.Plan, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, plan, priority, response_hours, resolution_hours, created_at, updated_at
        FROM sla_policies WHERE plan=$1 AND priority=$2`
	var policy domain.SLAPolicy
	if err := r.pool.QueryRow(ctx, query, plan, priority).Scan(
		&policy.ID,
		&policy.Plan,
		&policy.Priority,
		&policy.ResponseHours,
		&policy.ResolutionHours,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *slaPolicyRepository) ListAll(ctx context.Context) ([]domain.SLAPolicy, error) {
	const query = `
        SELECT id, plan, priority, response_hours, resolution_hours, created_at, updated_at
        FROM sla_policies ORDER BY plan, priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		var policy domain.SLAPolicy
		if err := rows.Scan(
			&policy.ID,
			&policy.Plan,
			&policy.Priority,
			&policy.ResponseHours,
			&policy.ResolutionHours,
			&policy.CreatedAt,
			&policy.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}

func (r *slaPolicyRepository) Upsert(ctx context.Context, policy *domain.SLAPolicy) error {
	const query = `
        INSERT INTO sla_policies (plan, priority, response_hours, resolution_hours)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (plan, priority) DO UPDATE
            SET response_hours=EXCLUDED.response_hours,
                resolution_hours=EXCLUDED.resolution_hours,
                updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		policy.Plan,
		policy.Priority,
		policy.ResponseHours,
		policy.ResolutionHours,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)
}
