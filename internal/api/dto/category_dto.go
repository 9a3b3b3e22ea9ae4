package dto

// CategoryRequest payload for the agent-only category surface.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryResponse projection.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
