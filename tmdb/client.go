package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Marquee/config"
	"Marquee/models"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// DefaultClient is the HTTP client used when none is supplied.
var DefaultClient = &http.Client{
	Timeout: 15 * time.Second,
}

type Client struct {
	baseURL  string
	apiKey   string
	language string
	region   string
	http     *http.Client
	limiter  *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = u }
}

func NewClient(cfg *config.Config, opts ...Option) *Client {
	rps := cfg.TMDBRequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	c := &Client{
		baseURL:  cfg.TMDBBaseURL,
		apiKey:   cfg.TMDBAPIKey,
		language: cfg.TMDBLanguage,
		region:   cfg.TMDBRegion,
		http:     DefaultClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCategory fetches one page of a movie listing endpoint.
func (c *Client) ListCategory(ctx context.Context, category models.Category, page int) (*Page, error) {
	if !category.Valid() || category == models.CategorySearch {
		return nil, fmt.Errorf("tmdb: %q is not a listing category", category)
	}
	apiURL := buildQueryURL(c.baseURL+"/movie/"+string(category), map[string]string{
		"api_key":  c.apiKey,
		"language": c.language,
		"region":   c.region,
		"page":     strconv.Itoa(page),
	})

	var p Page
	if err := c.getJSON(ctx, apiURL, &p); err != nil {
		return nil, fmt.Errorf("tmdb %s page %d: %w", category, page, err)
	}
	return &p, nil
}

// SearchMovies queries the provider's title search.
func (c *Client) SearchMovies(ctx context.Context, query string) (*Page, error) {
	apiURL := buildQueryURL(c.baseURL+"/search/movie", map[string]string{
		"api_key":  c.apiKey,
		"language": c.language,
		"query":    query,
	})

	var p Page
	if err := c.getJSON(ctx, apiURL, &p); err != nil {
		return nil, fmt.Errorf("tmdb search %q: %w", query, err)
	}
	return &p, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, v any) error {
	if c.apiKey == "" {
		return fmt.Errorf("TMDB_API_KEY is not set")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := makeRequest(ctx, apiURL, c.http)
	if err != nil {
		return err
	}
	return decodeJSONResponse(resp, v)
}

func makeRequest(ctx context.Context, apiURL string, client *http.Client) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return resp, nil
}

func buildQueryURL(baseURL string, params map[string]string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func decodeJSONResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
