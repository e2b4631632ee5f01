// Package posts reads the demo posts feed from a JSONPlaceholder-compatible
// API. Responses are cached in a querycache.Cache under the "Post" tag type.
package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/pkg/core"
)

// Defaults for Config.
const (
	DefaultBaseURL = "https://jsonplaceholder.typicode.com/"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 5
)

// TagType is the cache tag type of posts.
const TagType = "Post"

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Limit is the number of posts shown by Preview.
	Limit      int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches posts through the cache.
type Client struct {
	base   *url.URL
	http   *http.Client
	limit  int
	cache  *querycache.Cache
	logger *slog.Logger
}

// New creates a client. Zero config fields take their defaults.
func New(cfg Config, cache *querycache.Cache) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid posts base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid posts base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cache == nil {
		cache = querycache.New(querycache.Config{})
	}
	return &Client{base: base, http: cfg.HTTPClient, limit: cfg.Limit, cache: cache, logger: cfg.Logger}, nil
}

// Limit returns the preview size.
func (c *Client) Limit() int { return c.limit }

// List returns every post.
func (c *Client) List(ctx context.Context) querycache.Result[[]core.Post] {
	return querycache.Query(ctx, c.cache, "posts:list", func(ctx context.Context) ([]core.Post, error) {
		var out []core.Post
		err := c.get(ctx, "posts", &out)
		return out, err
	}, listTags)
}

// Preview returns the first Limit posts.
func (c *Client) Preview(ctx context.Context) querycache.Result[[]core.Post] {
	res := c.List(ctx)
	if len(res.Data) > c.limit {
		res.Data = res.Data[:c.limit]
	}
	return res
}

// Get returns post id.
func (c *Client) Get(ctx context.Context, id int) querycache.Result[core.Post] {
	key := "posts:" + strconv.Itoa(id)
	return querycache.Query(ctx, c.cache, key, func(ctx context.Context) (core.Post, error) {
		var p core.Post
		err := c.get(ctx, "posts/"+strconv.Itoa(id), &p)
		return p, err
	}, func(p core.Post) []querycache.Tag {
		return []querycache.Tag{{Type: TagType, ID: strconv.Itoa(id)}}
	})
}

// Refresh invalidates the cached post lists.
func (c *Client) Refresh() int {
	return c.cache.Invalidate(querycache.Tag{Type: TagType, ID: querycache.ListID})
}

// Loading reports whether the post list is being fetched.
func (c *Client) Loading() bool {
	return c.cache.Status("posts:list") == querycache.StatusLoading
}

func listTags(posts []core.Post) []querycache.Tag {
	tags := make([]querycache.Tag, 0, len(posts)+1)
	for _, p := range posts {
		tags = append(tags, querycache.Tag{Type: TagType, ID: strconv.Itoa(p.ID)})
	}
	return append(tags, querycache.Tag{Type: TagType, ID: querycache.ListID})
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	u := c.base.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("posts request", "url", u.String(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
