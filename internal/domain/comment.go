package domain

import "time"

// Comment is an append-only note on a ticket. UserID is always the
// authenticated author; comments are deleted together with their ticket.
type Comment struct {
	ID        string
	TicketID  string
	UserID    string
	Username  string
	UserRole  UserRole
	Content   string
	CreatedAt time.Time
}
