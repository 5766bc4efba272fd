package domain

import "time"

// Role enumerates what a user is allowed to do.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
)

// User is the domain model for everyone who logs into the system: requesters,
// technicians and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity behind an engine call. It is always
// passed explicitly; the engine never reads identity from ambient state.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
