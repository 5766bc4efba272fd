package domain

// PriorityCounts breaks ticket totals down by priority.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// DashboardMetrics is the read-only aggregate projection behind the metrics
// dashboard. Derived from ticket rows at query time, never stored.
type DashboardMetrics struct {
	Open                 int            `json:"open"`
	InProgress           int            `json:"inProgress"`
	Closed               int            `json:"closed"`
	Total                int            `json:"total"`
	SLAExpired           int            `json:"slaExpired"`
	Priorities           PriorityCounts `json:"priorities"`
	AvgResolutionMinutes int            `json:"avgResolution"`
}

// ClientTicketCount is a per-client ticket total for reports.
type ClientTicketCount struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	Total      int    `json:"totalTickets"`
}

// TechnicianTicketCount is a per-assignee ticket total for reports.
type TechnicianTicketCount struct {
	TechnicianID   string `json:"technicianId"`
	TechnicianName string `json:"technicianName"`
	Total          int    `json:"totalTickets"`
}

// TechnicianResolutionAverage is the mean closure time per assignee.
type TechnicianResolutionAverage struct {
	TechnicianID   string  `json:"technicianId"`
	TechnicianName string  `json:"technicianName"`
	AvgMinutes     float64 `json:"avgMinutes"`
}
