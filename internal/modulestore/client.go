package modulestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"course-meta/internal/domain"
	"course-meta/internal/httpx"
)

// Client is a read-only accessor to the content-versioning store's course
// API. The store owns all course state; this client only resolves keys to
// immutable snapshots.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	Retry httpx.RetryConfig
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute, // per-request
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

// GetCourse resolves one serialized course key to a snapshot.
func (c *Client) GetCourse(ctx context.Context, key string) (domain.CourseSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/courses/v2/%s", c.BaseURL, url.PathEscape(key))

	var out courseJSON
	err := httpx.DoJSON(ctx, c.HTTP, c.buildGet(endpoint), &out, c.Retry)
	if err != nil {
		return domain.CourseSnapshot{}, fmt.Errorf("modulestore: get course %s: %w", key, err)
	}
	return out.toSnapshot()
}

// ListCourses walks the store's paged course listing. maxPages <= 0 means
// all pages. On a page failure the courses fetched so far are returned along
// with the error.
func (c *Client) ListCourses(ctx context.Context, pageSize, maxPages int) ([]domain.CourseSnapshot, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	u, err := url.Parse(c.BaseURL + "/api/courses/v2/")
	if err != nil {
		return nil, fmt.Errorf("modulestore: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("page_size", fmt.Sprintf("%d", pageSize))
	u.RawQuery = q.Encode()

	var all []domain.CourseSnapshot
	next := u.String()

	for page := 1; next != ""; page++ {
		if maxPages > 0 && page > maxPages {
			break
		}

		var resp courseListResponse
		if err := httpx.DoJSON(ctx, c.HTTP, c.buildGet(next), &resp, c.Retry); err != nil {
			return all, fmt.Errorf("modulestore: list failed at page=%d url=%s: %w", page, next, err)
		}

		for _, raw := range resp.Results {
			snap, err := raw.toSnapshot()
			if err != nil {
				return all, err
			}
			all = append(all, snap)
		}

		next = resp.Next
	}

	return all, nil
}

func (c *Client) buildGet(endpoint string) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("modulestore: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}
		return req, nil
	}
}

// DecodeSnapshots reads a JSON array of course snapshots, the same shape the
// store's list endpoint returns per page. Used for file-based input.
func DecodeSnapshots(r io.Reader) ([]domain.CourseSnapshot, error) {
	var raw []courseJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("modulestore: decode snapshots: %w", err)
	}

	out := make([]domain.CourseSnapshot, 0, len(raw))
	for _, c := range raw {
		snap, err := c.toSnapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
