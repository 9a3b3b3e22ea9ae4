package dto

import "time"

// CreateTicketRequest payload. created_by is never client-suppliable; the
// server forces it to the authenticated caller.
type CreateTicketRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Status      string  `json:"status" validate:"omitempty,oneof=open in_progress closed"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string `json:"assigned_to"`
	Comment     string  `json:"comment"`
}

// UpdateTicketRequest is the allow-list of mutable fields plus the optional
// comment. Absent fields leave the ticket unchanged; an explicit null
// assigned_to clears the assignee.
type UpdateTicketRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=open in_progress closed"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo *string `json:"assigned_to"`
	Comment    string  `json:"comment"`
}

// CommentRequest payload for the append-comment operation.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentResponse projection.
type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"user"`
	UserRole  string    `json:"user_role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketSummaryResponse is the list projection: no nested comments, just a
// count.
type TicketSummaryResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Status             string    `json:"status"`
	Priority           string    `json:"priority"`
	CategoryName       string    `json:"category_name"`
	CreatedBy          string    `json:"created_by"`
	AssignedToUsername *string   `json:"assigned_to_username"`
	CommentsCount      int       `json:"comments_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TicketDetailResponse is the full projection with nested ordered comments.
type TicketDetailResponse struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Status             string            `json:"status"`
	Priority           string            `json:"priority"`
	Category           string            `json:"category"`
	CategoryName       string            `json:"category_name"`
	CreatedBy          string            `json:"created_by"`
	CreatedByID        string            `json:"created_by_id"`
	AssignedTo         *string           `json:"assigned_to"`
	AssignedToUsername *string           `json:"assigned_to_username"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Comments           []CommentResponse `json:"comments"`
}

// UpdateTicketResponse pairs the refreshed ticket with the outcome message
// and, when a comment was supplied, the newly created comment.
type UpdateTicketResponse struct {
	Message    string               `json:"message"`
	Ticket     TicketDetailResponse `json:"ticket"`
	NewComment *CommentResponse     `json:"new_comment,omitempty"`
}
