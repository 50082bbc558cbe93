package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"wpcat/internal/models"
)

// categoryPrompt is the fixed instruction template sent per post.
const categoryPrompt = "Suggest an appropriate English category name for the following blog post content:\n\n%s\n\nOnly return the category name, nothing else."

// errTransport marks failures worth retrying: connection errors, timeouts
// and non-2xx statuses. Protocol-level failures inside the stream are not.
var errTransport = errors.New("transport failure")

// OllamaSuggester asks a local Ollama instance for a category name. The
// /api/generate response is a newline-delimited JSON stream; fragments
// are consumed until one carries a response field.
type OllamaSuggester struct {
	baseURL    string
	model      string
	httpClient *http.Client
	retry      RetryStrategy

	// Pause between fragments while the service reports the model is
	// still loading. Shortened in tests.
	loadingPause time.Duration
}

func NewOllamaSuggester(baseURL, model string, retry RetryStrategy) *OllamaSuggester {
	if retry == nil {
		retry = &SimpleRetryStrategy{MaxAttempts: 3, BaseDelayMs: 500}
	}
	return &OllamaSuggester{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		retry:        retry,
		loadingPause: 2 * time.Second,
	}
}

// EnsureModel verifies the configured model is installed by querying the
// service's model listing. A missing model is a configuration fault and
// is never retried.
func (s *OllamaSuggester) EnsureModel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrService, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: reaching generation service: %v", models.ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model listing returned %d", models.ErrService, resp.StatusCode)
	}

	var listing struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return fmt.Errorf("%w: decoding model listing: %v", models.ErrService, err)
	}

	for _, m := range listing.Models {
		if modelMatches(m.Name, s.model) {
			log.Debugf("model %q available as %q", s.model, m.Name)
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not installed", models.ErrModelUnavailable, s.model)
}

// modelMatches compares installed and configured model names, exactly or
// by the name before the version separator ("llama3" matches
// "llama3:latest").
func modelMatches(installed, configured string) bool {
	if installed == configured {
		return true
	}
	base := func(name string) string {
		if i := strings.Index(name, ":"); i >= 0 {
			return name[:i]
		}
		return name
	}
	return base(installed) == base(configured)
}

// SuggestCategory returns the model's category suggestion for the given
// post text. Transport failures are retried with exponential backoff;
// protocol failures and an unavailable model are not.
func (s *OllamaSuggester) SuggestCategory(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(categoryPrompt, text)

	var lastErr error
	for attempt := 0; ; attempt++ {
		suggestion, err := s.generateOnce(ctx, prompt)
		if err == nil {
			return suggestion, nil
		}
		if !errors.Is(err, errTransport) {
			return "", err
		}

		lastErr = err
		backoff := s.retry.NextBackoff(attempt)
		if backoff < 0 {
			return "", fmt.Errorf("%w: retries exhausted: %v", models.ErrService, lastErr)
		}
		log.Warnf("generation attempt %d failed, retrying in %dms: %v", attempt+1, backoff, err)
		select {
		case <-time.After(time.Duration(backoff) * time.Millisecond):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", models.ErrService, ctx.Err())
		}
	}
}

func (s *OllamaSuggester) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"model":  s.model,
		"prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", models.ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: generation returned %d: %s", errTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	stream := newFragmentStream(resp.Body)
	for {
		frag, err := stream.Next()
		if err == io.EOF {
			return "", fmt.Errorf("%w: no valid response in stream", models.ErrService)
		}
		if err != nil {
			return "", fmt.Errorf("%w: reading stream: %v", models.ErrService, err)
		}

		if frag.Error != "" {
			switch {
			case strings.Contains(frag.Error, "loading"):
				// Model is being paged in; keep consuming the same stream.
				log.Debugf("model loading, pausing %s", s.loadingPause)
				time.Sleep(s.loadingPause)
			case strings.Contains(frag.Error, "not found"):
				return "", fmt.Errorf("%w: %s", models.ErrModelUnavailable, frag.Error)
			default:
				return "", fmt.Errorf("%w: %s", models.ErrService, frag.Error)
			}
			continue
		}

		if frag.Response != nil {
			return strings.TrimSpace(*frag.Response), nil
		}
	}
}

// generateFragment is one line of the /api/generate stream. Response is a
// pointer so presence can be told apart from an empty token.
type generateFragment struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
	Done     bool    `json:"done"`
}

// fragmentStream is a lazy sequence of parsed stream fragments. Next
// returns io.EOF when the stream is exhausted.
type fragmentStream struct {
	scanner *bufio.Scanner
}

func newFragmentStream(r io.Reader) *fragmentStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &fragmentStream{scanner: scanner}
}

func (f *fragmentStream) Next() (generateFragment, error) {
	for f.scanner.Scan() {
		line := bytes.TrimSpace(f.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var frag generateFragment
		if err := json.Unmarshal(line, &frag); err != nil {
			return generateFragment{}, fmt.Errorf("malformed fragment: %w", err)
		}
		return frag, nil
	}
	if err := f.scanner.Err(); err != nil {
		return generateFragment{}, err
	}
	return generateFragment{}, io.EOF
}
