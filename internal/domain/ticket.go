package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TicketCategory enumerates the business areas a ticket can belong to.
type TicketCategory string

const (
	CategoryFinanceiro     TicketCategory = "financeiro"
	CategorySuporte        TicketCategory = "suporte"
	CategoryAtendimento    TicketCategory = "atendimento"
	CategoryInfraestrutura TicketCategory = "infraestrutura"
	CategoryLogistica      TicketCategory = "logistica"
	CategoryAdministrativo TicketCategory = "administrativo"
	CategoryComercial      TicketCategory = "comercial"
	CategorySeguranca      TicketCategory = "seguranca"
	CategoryRH             TicketCategory = "rh"
)

// ValidCategory reports whether the value is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case CategoryFinanceiro, CategorySuporte, CategoryAtendimento,
		CategoryInfraestrutura, CategoryLogistica, CategoryAdministrativo,
		CategoryComercial, CategorySeguranca, CategoryRH:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. The two SLA deadlines are
// computed at creation from the client's plan and the ticket priority and are
// immutable afterwards. StartedAt and TotalTimeSpent are each set at most once
// by the state machine.
type Ticket struct {
	ID                    string
	ExternalKey           string
	Title                 string
	Description           string
	Status                TicketStatus
	Priority              TicketPriority
	Category              TicketCategory
	StartedAt             *time.Time
	TotalTimeSpent        *int
	SLAResponseDeadline   time.Time
	SLAResolutionDeadline time.Time
	CreatorID             *string
	AssigneeID            *string
	ClientID              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
