package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/events"
	"github.com/helpdesk-kit/sla-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They mimic the
// postgres repositories' contract, including pgx.ErrNoRows on misses and the
// mutate-under-lock semantics of UpdateWithLogs.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket
	logs    *fakeAuditLogRepo
}

func newFakeTicketRepo(logs *fakeAuditLogRepo) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, logs: logs}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *fakeTicketRepo) UpdateWithLogs(ctx context.Context, id string, mutate repository.TicketMutator) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	working := *stored
	entries, err := mutate(&working)
	if err != nil {
		return nil, err
	}
	r.tickets[id] = &working
	if r.logs != nil {
		for i := range entries {
			entry := entries[i]
			_ = r.logs.Append(ctx, &entry)
		}
	}
	clone := working
	return &clone, nil
}

type fakeAuditLogRepo struct {
	mu      sync.Mutex
	seq     int
	entries []domain.AuditLogEntry
}

func (r *fakeAuditLogRepo) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entry.ID = fmt.Sprintf("log-%d", r.seq)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditLogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeClientRepo struct {
	plans map[string]domain.Plan
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	if r.plans == nil {
		r.plans = map[string]domain.Plan{}
	}
	r.plans[client.ID] = client.Plan
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Client{ID: id, Plan: plan}, nil
}

func (r *fakeClientRepo) GetPlan(_ context.Context, id string) (domain.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return plan, nil
}

func (r *fakeClientRepo) List(_ context.Context, _, _ int) ([]domain.Client, error) {
	return nil, nil
}

type fakeCommentRepo struct {
	seq      int
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	attachments []domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

type policyKey struct {
	plan     domain.Plan
	priority domain.TicketPriority
}

type fakePolicyRepo struct {
	rows map[policyKey]domain.SLAPolicy
}

func newFakePolicyRepo(rows ...domain.SLAPolicy) *fakePolicyRepo {
	repo := &fakePolicyRepo{rows: map[policyKey]domain.SLAPolicy{}}
	for _, row := range rows {
		repo.rows[policyKey{row.Plan, row.Priority}] = row
	}
	return repo
}

func (r *fakePolicyRepo) Get(_ context.Context, plan domain.Plan, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	row, ok := r.rows[policyKey{plan, priority}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (r *fakePolicyRepo) ListAll(_ context.Context) ([]domain.SLAPolicy, error) {
	out := make([]domain.SLAPolicy, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *fakePolicyRepo) Upsert(_ context.Context, policy *domain.SLAPolicy) error {
	r.rows[policyKey{policy.Plan, policy.Priority}] = *policy
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, len(d.events))
	copy(out, d.events)
	return out
}
