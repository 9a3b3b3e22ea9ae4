package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/api/dto"
	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/service"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// TicketsHandler manages the ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	summaries, err := h.service.List(c.Context(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummaryResponse, 0, len(summaries))
	for i := range summaries {
		items = append(items, ticketSummaryResponse(&summaries[i]))
	}
	return c.JSON(items)
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if details := util.ValidateStruct(req); details != nil {
		return util.NewValidationError("invalid payload", details)
	}

	input := service.TicketCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.Category,
		Status:       domain.TicketStatus(req.Status),
		Priority:     domain.TicketPriority(req.Priority),
		AssignedToID: req.AssignedTo,
		Comment:      req.Comment,
	}
	ticket, comments, err := h.service.Create(c.Context(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketDetailResponse(ticket, comments))
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "ticket")
	if err != nil {
		return err
	}
	ticket, comments, err := h.service.Get(c.Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(ticketDetailResponse(ticket, comments))
}

// Update handles PUT and PATCH /tickets/:id. Both apply only the supplied
// fields; the optional comment is appended atomically with the update.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "ticket")
	if err != nil {
		return err
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if details := util.ValidateStruct(req); details != nil {
		return util.NewValidationError("invalid payload", details)
	}

	// An explicit {"assigned_to": null} clears the assignee, which a nil
	// pointer alone cannot distinguish from the field being absent.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	_, assignedToSet := raw["assigned_to"]

	input := service.TicketUpdateInput{
		AssignedToID:  req.AssignedTo,
		AssignedToSet: assignedToSet,
		Comment:       req.Comment,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}

	result, err := h.service.Update(c.Context(), caller, id, input)
	if err != nil {
		return err
	}

	resp := dto.UpdateTicketResponse{
		Message: result.Message,
		Ticket:  ticketDetailResponse(result.Ticket, result.Comments),
	}
	if result.NewComment != nil {
		cr := commentResponse(result.NewComment)
		resp.NewComment = &cr
	}
	return c.JSON(resp)
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "ticket")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), caller, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddComment handles POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "ticket")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if details := util.ValidateStruct(req); details != nil {
		return util.NewValidationError("invalid payload", details)
	}
	comment, err := h.service.AddComment(c.Context(), caller, id, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(commentResponse(comment))
}

func ticketSummaryResponse(summary *domain.TicketSummary) dto.TicketSummaryResponse {
	return dto.TicketSummaryResponse{
		ID:                 summary.ID,
		Title:              summary.Title,
		Status:             string(summary.Status),
		Priority:           string(summary.Priority),
		CategoryName:       summary.CategoryName,
		CreatedBy:          summary.CreatedByUsername,
		AssignedToUsername: summary.AssignedToUsername,
		CommentsCount:      summary.CommentCount,
		CreatedAt:          summary.CreatedAt,
		UpdatedAt:          summary.UpdatedAt,
	}
}

func ticketDetailResponse(ticket *domain.Ticket, comments []domain.Comment) dto.TicketDetailResponse {
	commentItems := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		commentItems = append(commentItems, commentResponse(&comments[i]))
	}
	return dto.TicketDetailResponse{
		ID:                 ticket.ID,
		Title:              ticket.Title,
		Description:        ticket.Description,
		Status:             string(ticket.Status),
		Priority:           string(ticket.Priority),
		Category:           ticket.CategoryID,
		CategoryName:       ticket.CategoryName,
		CreatedBy:          ticket.CreatedByUsername,
		CreatedByID:        ticket.CreatedByID,
		AssignedTo:         ticket.AssignedToID,
		AssignedToUsername: ticket.AssignedToUsername,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		Comments:           commentItems,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Username:  comment.Username,
		UserRole:  string(comment.UserRole),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
