package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wpcat/internal/models"
	"wpcat/internal/store"
	"wpcat/internal/util"
	"wpcat/pkg/categorizer"
)

// CategorizeService runs the batch: for every uncategorized post, ask the
// suggester for a category name, reconcile it against the current
// category set, create a category when nothing matches, and update the
// post. Posts are processed strictly one at a time; a failing post is
// skipped and the run continues.
type CategorizeService struct {
	categories store.CategoryStore
	posts      store.PostStore
	suggester  categorizer.Suggester
	matcher    categorizer.Matcher

	excerptSentences int
}

func NewCategorizeService(categories store.CategoryStore, posts store.PostStore, suggester categorizer.Suggester, matcher categorizer.Matcher) *CategorizeService {
	return &CategorizeService{
		categories:       categories,
		posts:            posts,
		suggester:        suggester,
		matcher:          matcher,
		excerptSentences: util.DefaultExcerptSentences,
	}
}

// Run fetches the work list and processes it. Failures fetching the
// initial lists are fatal; zero eligible posts is reported as
// ErrNoUncategorizedPosts together with an empty summary.
func (s *CategorizeService) Run(ctx context.Context) (*models.RunSummary, error) {
	posts, err := s.posts.ListUncategorizedPosts(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return &models.RunSummary{}, models.ErrNoUncategorizedPosts
	}
	log.Infof("found %d uncategorized posts", len(posts))

	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d existing categories", len(cats))

	summary := &models.RunSummary{}
	for _, post := range posts {
		result := s.processPost(ctx, post, cats)
		summary.Results = append(summary.Results, result)

		if result.Err != nil {
			log.Warnf("skipping post %d (%s): %v", post.ID, post.Title.Rendered, result.Err)
		} else {
			log.Infof("post %d (%s): %s category %q (id %d)",
				post.ID, post.Title.Rendered, result.Outcome, result.CategoryName, result.CategoryID)
		}

		if result.CreatedCategory {
			// Keep later matches consistent with what this run created:
			// append locally, then re-fetch the authoritative list.
			cats = append(cats, models.Category{ID: result.CategoryID, Name: result.CategoryName})
			refreshed, err := s.categories.ListCategories(ctx)
			if err != nil {
				log.Warnf("category refresh failed, continuing with local list: %v", err)
				continue
			}
			cats = refreshed
		}
	}
	return summary, nil
}

// processPost walks one post through suggest, reconcile and update. Any
// failure produces a skipped result; the error never escapes the post.
func (s *CategorizeService) processPost(ctx context.Context, post models.Post, cats []models.Category) models.PostResult {
	result := models.PostResult{PostID: post.ID, Title: post.Title.Rendered}

	text := util.Excerpt(util.ExtractText(post.Content.Rendered), s.excerptSentences)
	if text == "" {
		result.Outcome = models.OutcomeSkipped
		result.Err = fmt.Errorf("post %d has no readable content", post.ID)
		return result
	}

	suggestion, err := s.suggester.SuggestCategory(ctx, text)
	if err != nil {
		result.Outcome = models.OutcomeSkipped
		result.Err = err
		return result
	}
	if suggestion == "" {
		result.Outcome = models.OutcomeSkipped
		result.Err = fmt.Errorf("%w: empty suggestion for post %d", models.ErrService, post.ID)
		return result
	}
	result.Suggestion = suggestion
	log.Debugf("post %d: suggested category %q", post.ID, suggestion)

	match, err := s.matcher.Match(ctx, suggestion, cats)
	if err != nil {
		result.Outcome = models.OutcomeSkipped
		result.Err = err
		return result
	}

	if match.Matched {
		result.CategoryID = match.CategoryID
		result.CategoryName = match.CategoryName
		result.Outcome = models.OutcomeMatched
	} else {
		created, err := s.categories.CreateCategory(ctx, suggestion)
		if err != nil {
			result.Outcome = models.OutcomeSkipped
			result.Err = err
			return result
		}
		result.CategoryID = created.ID
		result.CategoryName = created.Name
		result.CreatedCategory = true
		result.Outcome = models.OutcomeCreated
	}

	if err := s.posts.SetPostCategory(ctx, post.ID, result.CategoryID); err != nil {
		result.Outcome = models.OutcomeSkipped
		result.Err = err
		return result
	}
	return result
}
