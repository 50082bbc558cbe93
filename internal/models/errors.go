package models

import (
	"errors"
)

var (
	// ErrModelUnavailable means the configured generation model is not
	// installed on the service. A configuration fault, never retried.
	ErrModelUnavailable = errors.New("generation model unavailable")

	// ErrService covers transport or protocol failures talking to the
	// generation service after retries are exhausted.
	ErrService = errors.New("generation service error")

	// ErrHostFetch means a paged fetch from the content host failed.
	ErrHostFetch = errors.New("content host fetch failed")

	// ErrHostMutation means a create or update call to the content host
	// failed. Isolated to the post being processed.
	ErrHostMutation = errors.New("content host mutation failed")

	// ErrNoUncategorizedPosts is returned when a run finds nothing to do.
	ErrNoUncategorizedPosts = errors.New("no uncategorized posts found")

	ErrEmbeddingFailed = errors.New("embedding generation failed")
)
