package domain

// Category classifies tickets. Names are unique and non-empty; a category
// referenced by any ticket cannot be deleted.
type Category struct {
	ID   string
	Name string
}
