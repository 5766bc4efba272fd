package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// ClientRepository persists client companies. GetPlan is the hot path: every
// ticket creation resolves the client's plan through it.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetPlan(ctx context.Context, id string) (domain.Plan, error)
	List(ctx context.Context, limit, offset int) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository builds repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, cnpj, email, phone, notes, plan)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.CNPJ,
		client.Email,
		client.Phone,
		client.Notes,
		client.Plan,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        SELECT id, name, cnpj, email, phone, notes, plan, created_at, updated_at
        FROM clients WHERE id=$1`
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.CNPJ,
		&client.Email,
		&client.Phone,
		&client.Notes,
		&client.Plan,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetPlan(ctx context.Context, id string) (domain.Plan, error) {
	const query = `SELECT plan FROM clients WHERE id=$1`
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, id).Scan(&plan); err != nil {
		return "", err
	}
	return plan, nil
}

func (r *clientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, cnpj, email, phone, notes, plan, created_at, updated_at
        FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.CNPJ,
			&client.Email,
			&client.Phone,
			&client.Notes,
			&client.Plan,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}
