package service

import (
	"context"
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/repository"
	"github.com/helpdesk-kit/sla-service/internal/sla"
)

// ReportService exposes the read-only reporting projections.
type ReportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// ExpiredTicket pairs an overdue ticket with its resolution standing.
type ExpiredTicket struct {
	Ticket     domain.Ticket
	Resolution sla.Evaluation
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

// TicketsByClient returns total tickets per client.
func (s *ReportService) TicketsByClient(ctx context.Context) ([]domain.ClientTicketCount, error) {
	return s.reports.TicketsByClient(ctx)
}

// TicketsByTechnician returns total tickets per assignee.
func (s *ReportService) TicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error) {
	return s.reports.TicketsByTechnician(ctx)
}

// OpenTicketsByTechnician ranks technicians by currently open tickets.
func (s *ReportService) OpenTicketsByTechnician(ctx context.Context) ([]domain.TechnicianTicketCount, error) {
	return s.reports.OpenTicketsByTechnician(ctx)
}

// AverageResolutionByTechnician returns the mean closure minutes per assignee.
func (s *ReportService) AverageResolutionByTechnician(ctx context.Context) ([]domain.TechnicianResolutionAverage, error) {
	return s.reports.AverageResolutionByTechnician(ctx)
}

// SLAExpired lists tickets whose resolution deadline has passed without
// closure, each annotated with its breach evaluation.
func (s *ReportService) SLAExpired(ctx context.Context) ([]ExpiredTicket, error) {
	now := s.now()
	tickets, err := s.reports.SLAExpiredTickets(ctx, now)
	if err != nil {
		return nil, err
	}
	result := make([]ExpiredTicket, 0, len(tickets))
	for _, ticket := range tickets {
		result = append(result, ExpiredTicket{
			Ticket:     ticket,
			Resolution: sla.Evaluate(ticket.SLAResolutionDeadline, now),
		})
	}
	return result, nil
}
