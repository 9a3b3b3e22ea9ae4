package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ticketflow/ticketflow/internal/api/dto"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/service"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// CategoriesHandler serves the category catalog. Reads are open to any
// authenticated caller; writes are registered behind the agent-only guard.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs the handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// List handles GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryResponse(&category))
	}
	return c.JSON(items)
}

// Get handles GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(categoryResponse(category))
}

// Create handles POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if details := util.ValidateStruct(req); details != nil {
		return util.NewValidationError("invalid payload", details)
	}
	category, err := h.service.Create(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(categoryResponse(category))
}

// Update handles PUT /categories/:id (rename only).
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if details := util.ValidateStruct(req); details != nil {
		return util.NewValidationError("invalid payload", details)
	}
	category, err := h.service.Rename(c.Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(categoryResponse(category))
}

// Delete handles DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: category.ID, Name: category.Name}
}

// parseID validates the :id path parameter. A malformed id cannot match any
// row, so it reports not-found rather than surfacing a database error.
func parseID(c *fiber.Ctx, resource string) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", util.NewNotFound(resource, map[string]any{"id": id})
	}
	return id, nil
}
