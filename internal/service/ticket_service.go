package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/repository"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// Outcome messages for the combined update operation.
const (
	MsgTicketUpdated          = "ticket updated"
	MsgTicketUpdatedCommented = "ticket updated and comment added"
)

// TicketService coordinates the ticket lifecycle and the owner-or-agent
// access rules around it.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CommentRepo  repository.CommentRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
	}
}

// TicketCreateInput describes the ticket creation payload. CreatedBy is
// never part of the input; it is forced to the authenticated caller.
type TicketCreateInput struct {
	Title        string
	Description  string
	CategoryID   string
	Status       domain.TicketStatus
	Priority     domain.TicketPriority
	AssignedToID *string
	Comment      string
}

// TicketUpdateInput carries the explicit allow-list of mutable fields.
// Nil pointers mean "leave unchanged"; AssignedToSet distinguishes an
// absent assigned_to from an explicit null that clears the assignee.
type TicketUpdateInput struct {
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	AssignedToID  *string
	AssignedToSet bool
	Comment       string
}

// List returns the role-filtered summary set, most recently touched first.
// Agents see every ticket; other users only tickets they created. The
// filter is applied at the query level, not as a post-filter.
func (s *TicketService) List(ctx context.Context, caller *domain.User) ([]domain.TicketSummary, error) {
	filter := repository.TicketFilter{}
	if !caller.IsAgent() {
		filter.CreatedByID = &caller.ID
	}
	summaries, err := s.tickets.ListSummaries(ctx, filter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return summaries, nil
}

// Create opens a ticket for the caller. An optional non-blank comment is
// created in the same transaction and attributed to the caller.
func (s *TicketService) Create(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, []domain.Comment, error) {
	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if !domain.ValidStatus(status) {
		return nil, nil, util.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityLow
	}
	if !domain.ValidPriority(priority) {
		return nil, nil, util.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, util.NewValidationError("unknown category", map[string]any{"category": input.CategoryID})
		}
		return nil, nil, util.MapError(err)
	}
	if input.AssignedToID != nil {
		if err := s.validateAssignee(ctx, *input.AssignedToID); err != nil {
			return nil, nil, err
		}
	}

	ticket := &domain.Ticket{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       status,
		Priority:     priority,
		CategoryID:   input.CategoryID,
		CreatedByID:  caller.ID,
		AssignedToID: input.AssignedToID,
	}
	comment := buildComment(caller, input.Comment)

	if err := s.tickets.CreateWithComment(ctx, ticket, comment); err != nil {
		return nil, nil, util.MapError(err)
	}
	return s.detail(ctx, ticket.ID)
}

// Get returns the full projection with ordered comments, gated by the
// owner-or-agent check. A missing id yields not-found; an existing ticket
// outside the caller's rights yields an authorization error.
func (s *TicketService) Get(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.fetchAuthorized(ctx, caller, ticketID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, util.MapError(err)
	}
	return ticket, comments, nil
}

// TicketUpdateResult carries the outcome of the combined update operation.
type TicketUpdateResult struct {
	Ticket     *domain.Ticket
	Comments   []domain.Comment
	NewComment *domain.Comment
	Message    string
}

// Update applies the supplied fields and, when a non-blank comment is
// present, appends it in the same transaction: both succeed or both fail.
// The result holds the refreshed ticket, its full comment list, the new
// comment (if any) and a human-readable outcome message.
func (s *TicketService) Update(ctx context.Context, caller *domain.User, ticketID string, input TicketUpdateInput) (*TicketUpdateResult, error) {
	ticket, err := s.fetchAuthorized(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, util.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, util.NewValidationError("invalid priority", map[string]any{"priority": string(*input.Priority)})
		}
		ticket.Priority = *input.Priority
	}
	if input.AssignedToSet {
		if input.AssignedToID != nil {
			if err := s.validateAssignee(ctx, *input.AssignedToID); err != nil {
				return nil, err
			}
		}
		ticket.AssignedToID = input.AssignedToID
	}

	comment := buildComment(caller, input.Comment)
	if err := s.tickets.UpdateWithComment(ctx, ticket, comment); err != nil {
		return nil, util.MapError(err)
	}

	updated, comments, err := s.detail(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	message := MsgTicketUpdated
	if comment != nil {
		message = MsgTicketUpdatedCommented
	}
	return &TicketUpdateResult{
		Ticket:     updated,
		Comments:   comments,
		NewComment: comment,
		Message:    message,
	}, nil
}

// Delete removes a ticket and, through the schema, its comments.
func (s *TicketService) Delete(ctx context.Context, caller *domain.User, ticketID string) error {
	ticket, err := s.fetchAuthorized(ctx, caller, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return util.MapError(err)
	}
	return nil
}

// AddComment appends a comment attributed to the caller. The parent ticket
// row is left untouched, so its updated_at does not advance.
func (s *TicketService) AddComment(ctx context.Context, caller *domain.User, ticketID, content string) (*domain.Comment, error) {
	ticket, err := s.fetchAuthorized(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}

	comment := buildComment(caller, content)
	if comment == nil {
		return nil, util.NewValidationError("content must not be empty", nil)
	}
	comment.TicketID = ticket.ID
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, util.MapError(err)
	}
	return comment, nil
}

func (s *TicketService) fetchAuthorized(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, util.MapError(err)
	}
	if !auth.CanActOnTicket(caller, ticket) {
		return nil, util.NewForbidden("not allowed to act on this ticket")
	}
	return ticket, nil
}

func (s *TicketService) validateAssignee(ctx context.Context, userID string) error {
	assignee, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewValidationError("assignee not found", map[string]any{"assigned_to": userID})
		}
		return util.MapError(err)
	}
	if !assignee.IsAgent() {
		return util.NewValidationError("assignee must be an agent", map[string]any{"assigned_to": userID})
	}
	return nil
}

func (s *TicketService) detail(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, util.MapError(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, util.MapError(err)
	}
	return ticket, comments, nil
}

// buildComment returns a comment attributed to the caller, or nil when the
// content is blank.
func buildComment(caller *domain.User, content string) *domain.Comment {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	return &domain.Comment{
		UserID:   caller.ID,
		Username: caller.Username,
		UserRole: caller.Role,
		Content:  content,
	}
}
