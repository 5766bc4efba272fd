package domain

import "time"

// Client is a company whose subscription plan drives SLA policy selection.
// It owns zero or more tickets.
type Client struct {
	ID        string
	Name      string
	CNPJ      string
	Email     string
	Phone     string
	Notes     string
	Plan      Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}
