package store

import (
	"context"

	"wpcat/internal/models"
)

// CategoryStore is the category side of the content host, as consumed by
// the orchestrator.
type CategoryStore interface {
	// ListCategories returns every category, fully paged.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateCategory creates a category from a display name, deriving its
	// slug, and returns the host-assigned record.
	CreateCategory(ctx context.Context, name string) (models.Category, error)
}

// PostStore is the post side of the content host.
type PostStore interface {
	// ListUncategorizedPosts returns every post whose category list is
	// empty or exactly the host's default category, fully paged.
	ListUncategorizedPosts(ctx context.Context) ([]models.Post, error)
	// SetPostCategory replaces the post's category list with a single id.
	SetPostCategory(ctx context.Context, postID, categoryID int) error
}
