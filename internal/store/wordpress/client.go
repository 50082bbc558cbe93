package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"wpcat/internal/models"
	"wpcat/internal/util"
)

const perPage = 100

// invalidPageCode is the machine code WordPress returns (with HTTP 400)
// when a page number runs past the last page. It terminates pagination,
// it is not an error.
const invalidPageCode = "rest_post_invalid_page_number"

// Client talks to a WordPress REST API (the /wp-json/wp/v2 surface) with
// HTTP Basic auth from an application password.
type Client struct {
	baseURL           string
	authHeader        string
	defaultCategoryID int
	httpClient        *http.Client
	limiter           *rate.Limiter
}

// NewClient builds a client for baseURL (e.g. https://example.com/wp-json/wp/v2).
// rps bounds outgoing requests per second; WordPress hosts throttle
// aggressive REST consumers.
func NewClient(baseURL, username, appPassword string, defaultCategoryID int, rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + appPassword))
	return &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		authHeader:        "Basic " + token,
		defaultCategoryID: defaultCategoryID,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		limiter:           rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// ListCategories pages through /categories until the host returns an
// empty page.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/categories?per_page=%d&page=%d", c.baseURL, perPage, page)
		log.Debugf("fetching categories page %d", page)

		body, status, err := c.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("%w: categories page %d: %v", models.ErrHostFetch, page, err)
		}
		if done, err := pageEnded(status, body); done {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: categories page %d: %v", models.ErrHostFetch, page, err)
		}

		var batch []models.Category
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("%w: decoding categories page %d: %v", models.ErrHostFetch, page, err)
		}
		if len(batch) == 0 {
			break
		}
		categories = append(categories, batch...)
	}
	return categories, nil
}

// ListUncategorizedPosts pages through /posts and keeps the posts whose
// category list is empty or exactly the default category. Pagination ends
// on an empty page or on the host's invalid-page-number signal.
func (c *Client) ListUncategorizedPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/posts?per_page=%d&page=%d", c.baseURL, perPage, page)
		log.Debugf("fetching posts page %d", page)

		body, status, err := c.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("%w: posts page %d: %v", models.ErrHostFetch, page, err)
		}
		if done, err := pageEnded(status, body); done {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: posts page %d: %v", models.ErrHostFetch, page, err)
		}

		var batch []models.Post
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("%w: decoding posts page %d: %v", models.ErrHostFetch, page, err)
		}
		if len(batch) == 0 {
			break
		}
		for _, p := range batch {
			if p.IsUncategorized(c.defaultCategoryID) {
				posts = append(posts, p)
			}
		}
	}
	return posts, nil
}

// CreateCategory creates a category from name, deriving its slug.
func (c *Client) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	payload := map[string]string{
		"name": name,
		"slug": util.Slugify(name),
	}
	var created models.Category
	if err := c.send(ctx, http.MethodPost, c.baseURL+"/categories", payload, &created); err != nil {
		return models.Category{}, fmt.Errorf("%w: create category %q: %v", models.ErrHostMutation, name, err)
	}
	if created.Name == "" {
		created.Name = name
	}
	return created, nil
}

// SetPostCategory replaces the post's categories with the single given id.
func (c *Client) SetPostCategory(ctx context.Context, postID, categoryID int) error {
	payload := map[string][]int{"categories": {categoryID}}
	url := fmt.Sprintf("%s/posts/%d", c.baseURL, postID)
	if err := c.send(ctx, http.MethodPut, url, payload, nil); err != nil {
		return fmt.Errorf("%w: update post %d: %v", models.ErrHostMutation, postID, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) send(ctx context.Context, method, url string, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("host returned %d: %s", resp.StatusCode, truncateBody(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// pageEnded decides whether a list response terminates pagination. Only a
// 400 carrying the invalid-page-number code is a terminator; any other
// non-2xx status is a fetch error.
func pageEnded(status int, body []byte) (bool, error) {
	if status >= 200 && status <= 299 {
		return false, nil
	}
	if status == http.StatusBadRequest {
		var apiErr struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code == invalidPageCode {
			return true, nil
		}
	}
	return false, fmt.Errorf("host returned %d: %s", status, truncateBody(body))
}

func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
