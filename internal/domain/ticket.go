package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any value may
// replace any other; the lifecycle carries no transition guards.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether the value is one of the enumerated statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidPriority reports whether the value is one of the enumerated priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. CreatedByID is set once at
// creation and never changed; AssignedToID, when set, must reference an
// agent. The *Name/*Username fields are read-side joins populated by the
// repository.
type Ticket struct {
	ID                 string
	Title              string
	Description        string
	Status             TicketStatus
	Priority           TicketPriority
	CategoryID         string
	CategoryName       string
	CreatedByID        string
	CreatedByUsername  string
	AssignedToID       *string
	AssignedToUsername *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TicketSummary is the lightweight projection used for list views.
type TicketSummary struct {
	ID                 string
	Title              string
	Status             TicketStatus
	Priority           TicketPriority
	CategoryName       string
	CreatedByUsername  string
	AssignedToUsername *string
	CommentCount       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
