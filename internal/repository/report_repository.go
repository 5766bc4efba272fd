package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// ReportRepository runs the read-only aggregate queries behind the dashboard
// and reports. SLA expiry is measured against the resolution deadline, the
// same rule the breach evaluator applies per ticket.
type ReportRepository interface {
	DashboardMetrics(ctx context.Context, now time.Time) (*domain.DashboardMetrics, error)
	TicketsByClient(ctx context.Context) ([]domain.ClientTicketCount, error)
	TicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error)
	OpenTicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error)
	AverageResolutionByTechnician(ctx context.Context) ([]domain.TechnicianResolutionAverage, error)
	SLAExpiredTickets(ctx context.Context, now time.Time) ([]domain.Ticket, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) DashboardMetrics(ctx context.Context, now time.Time) (*domain.DashboardMetrics, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE status='open'),
            COUNT(*) FILTER (WHERE status='in_progress'),
            COUNT(*) FILTER (WHERE status='closed'),
            COUNT(*) FILTER (WHERE status != 'closed' AND sla_resolution_deadline < $1),
            COUNT(*) FILTER (WHERE priority='low'),
            COUNT(*) FILTER (WHERE priority='medium'),
            COUNT(*) FILTER (WHERE priority='high'),
            COALESCE(ROUND(AVG(total_time_spent) FILTER (WHERE status='closed' AND total_time_spent IS NOT NULL)), 0)
        FROM tickets`
	var m domain.DashboardMetrics
	if err := r.pool.QueryRow(ctx, query, now).Scan(
		&m.Open,
		&m.InProgress,
		&m.Closed,
		&m.SLAExpired,
		&m.Priorities.Low,
		&m.Priorities.Medium,
		&m.Priorities.High,
		&m.AvgResolutionMinutes,
	); err != nil {
		return nil, err
	}
	m.Total = m.Open + m.InProgress + m.Closed
	return &m, nil
}

func (r *reportRepository) TicketsByClient(ctx context.Context) ([]domain.ClientTicketCount, error) {
	const query = `
        SELECT c.id, c.name, COUNT(t.id)
        FROM tickets t JOIN clients c ON c.id = t.client_id
        GROUP BY c.id, c.name
        ORDER BY COUNT(t.id) DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientTicketCount
	for rows.Next() {
		var row domain.ClientTicketCount
		if err := rows.Scan(&row.ClientID, &row.ClientName, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) TicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error) {
	const query = `
        SELECT u.id, u.name, COUNT(t.id)
        FROM tickets t JOIN users u ON u.id = t.assignee_id
        GROUP BY u.id, u.name
        ORDER BY COUNT(t.id) DESC`
	return r.scanTechnicianCounts(ctx, query)
}

func (r *reportRepository) OpenTicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error) {
	const query = `
        SELECT u.id, u.name, COUNT(t.id)
        FROM tickets t JOIN users u ON u.id = t.assignee_id
        WHERE t.status != 'closed'
        GROUP BY u.id, u.name
        ORDER BY COUNT(t.id) DESC`
	return r.scanTechnicianCounts(ctx, query)
}

func (r *reportRepository) scanTechnicianCounts(ctx context.Context, query string) ([]domain.TechnicianTicketCount, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TechnicianTicketCount
	for rows.Next() {
		var row domain.TechnicianTicketCount
		if err := rows.Scan(&row.TechnicianID, &row.TechnicianName, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) AverageResolutionByTechnician(ctx context.Context) ([]domain.TechnicianResolutionAverage, error) {
	const query = `
        SELECT u.id, u.name, AVG(t.total_time_spent)
        FROM tickets t JOIN users u ON u.id = t.assignee_id
        WHERE t.status='closed' AND t.total_time_spent IS NOT NULL
        GROUP BY u.id, u.name
        ORDER BY AVG(t.total_time_spent) ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TechnicianResolutionAverage
	for rows.Next() {
		var row domain.TechnicianResolutionAverage
		if err := rows.Scan(&row.TechnicianID, &row.TechnicianName, &row.AvgMinutes); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) SLAExpiredTickets(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status != 'closed' AND sla_resolution_deadline < $1
        ORDER BY sla_resolution_deadline ASC`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}
