package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/repository"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// CategoryService manages the category catalog. Reads are open to any
// authenticated caller; writes are routed through the agent-only surface.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return categories, nil
}

// Get fetches a single category.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, util.MapError(err)
	}
	return category, nil
}

// Create adds a category with a unique non-empty name.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name must not be empty", nil)
	}
	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("category name already exists", map[string]any{"name": name})
		}
		return nil, util.MapError(err)
	}
	return category, nil
}

// Rename changes a category's name; renaming is the only permitted edit.
func (s *CategoryService) Rename(ctx context.Context, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name must not be empty", nil)
	}
	category := &domain.Category{ID: id, Name: name}
	if err := s.categories.Rename(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("category", map[string]any{"category_id": id})
		}
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("category name already exists", map[string]any{"name": name})
		}
		return nil, util.MapError(err)
	}
	return category, nil
}

// Delete removes a category. Deletion is refused, not cascaded, while any
// ticket references the category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("category", map[string]any{"category_id": id})
		}
		if util.IsForeignKeyViolation(err) {
			return util.NewConflict("category is referenced by tickets", map[string]any{"category_id": id})
		}
		return util.MapError(err)
	}
	return nil
}
