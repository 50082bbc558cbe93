package models

// Category is a WordPress taxonomy term. IDs are assigned by the host and
// immutable; this system only reads and compares names.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RenderedText mirrors the {rendered: "..."} objects the WordPress REST
// API uses for post titles and bodies.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// Post is a WordPress post as returned by GET /posts.
type Post struct {
	ID         int          `json:"id"`
	Title      RenderedText `json:"title"`
	Content    RenderedText `json:"content"`
	Categories []int        `json:"categories"`
}

// IsUncategorized reports whether the post needs a category: either no
// categories at all, or exactly the host's default category.
func (p Post) IsUncategorized(defaultCategoryID int) bool {
	if len(p.Categories) == 0 {
		return true
	}
	return len(p.Categories) == 1 && p.Categories[0] == defaultCategoryID
}

// Outcome classifies what happened to a single post during a run.
type Outcome string

const (
	OutcomeMatched Outcome = "matched"
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
)

// PostResult records the outcome of processing one post.
type PostResult struct {
	PostID       int
	Title        string
	Suggestion   string
	CategoryID   int
	CategoryName string
	// CreatedCategory is true when this post caused a category create,
	// even if a later step failed.
	CreatedCategory bool
	Outcome         Outcome
	Err             error
}

// RunSummary aggregates a full orchestration pass.
type RunSummary struct {
	Results []PostResult
}

func (s *RunSummary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
