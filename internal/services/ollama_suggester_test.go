package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpcat/internal/models"
)

func newTestSuggester(baseURL string) *OllamaSuggester {
	s := NewOllamaSuggester(baseURL, "llama3:latest", &SimpleRetryStrategy{MaxAttempts: 2, BaseDelayMs: 1})
	s.loadingPause = 0
	return s
}

func TestEnsureModelExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"mistral:7b"},{"name":"llama3:latest"}]}`)
	}))
	defer srv.Close()

	require.NoError(t, newTestSuggester(srv.URL).EnsureModel(context.Background()))
}

func TestEnsureModelPrefixMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models":[{"name":"llama3:8b"}]}`)
	}))
	defer srv.Close()

	// Installed llama3:8b satisfies configured llama3:latest by base name.
	require.NoError(t, newTestSuggester(srv.URL).EnsureModel(context.Background()))
}

func TestEnsureModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models":[{"name":"mistral:7b"}]}`)
	}))
	defer srv.Close()

	err := newTestSuggester(srv.URL).EnsureModel(context.Background())
	assert.ErrorIs(t, err, models.ErrModelUnavailable)
}

func TestEnsureModelUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestSuggester(srv.URL).EnsureModel(context.Background())
	assert.ErrorIs(t, err, models.ErrService)
}

func TestSuggestCategoryReadsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		fmt.Fprintln(w, `{"response":"  Technology ","done":false}`)
		fmt.Fprintln(w, `{"response":" extra","done":true}`)
	}))
	defer srv.Close()

	got, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "some post body")
	require.NoError(t, err)
	assert.Equal(t, "Technology", got, "first fragment with a response field wins, trimmed")
}

func TestSuggestCategoryLoadingThenResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"loading model, please wait"}`)
		fmt.Fprintln(w, `{"response":"Gardening"}`)
	}))
	defer srv.Close()

	got, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Gardening", got)
}

func TestSuggestCategoryErrorFragment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"something broke internally"}`)
	}))
	defer srv.Close()

	_, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	assert.ErrorIs(t, err, models.ErrService)
}

func TestSuggestCategoryModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model 'llama3:latest' not found"}`)
	}))
	defer srv.Close()

	_, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	assert.ErrorIs(t, err, models.ErrModelUnavailable)
}

func TestSuggestCategoryNoResponseInStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"done":true}`)
	}))
	defer srv.Close()

	_, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	assert.ErrorIs(t, err, models.ErrService)
	assert.Contains(t, err.Error(), "no valid response")
}

func TestSuggestCategoryRetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintln(w, `{"response":"Travel"}`)
	}))
	defer srv.Close()

	got, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Travel", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSuggestCategoryRetryExhaustion(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	assert.ErrorIs(t, err, models.ErrService)
	// MaxAttempts 2 means the first try plus two retries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestSuggestCategoryDoesNotRetryModelUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintln(w, `{"error":"model 'llama3:latest' not found"}`)
	}))
	defer srv.Close()

	_, err := newTestSuggester(srv.URL).SuggestCategory(context.Background(), "body")
	assert.ErrorIs(t, err, models.ErrModelUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestModelMatches(t *testing.T) {
	cases := []struct {
		installed, configured string
		want                  bool
	}{
		{"llama3:latest", "llama3:latest", true},
		{"llama3:8b", "llama3:latest", true},
		{"llama3", "llama3:latest", true},
		{"llama3:latest", "llama3", true},
		{"mistral:7b", "llama3:latest", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, modelMatches(tc.installed, tc.configured),
			"installed=%s configured=%s", tc.installed, tc.configured)
	}
}
