package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Mode string

const (
	ContentBased  Mode = "content-based"
	Collaborative Mode = "collaborative"
)

// ParseMode accepts the short and long spellings of each mode. An empty
// string selects content-based recommendations.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "content", "content-based":
		return ContentBased, nil
	case "collaborative":
		return Collaborative, nil
	}
	return "", fmt.Errorf("unknown recommendation mode %q", s)
}

// ErrNoRecommendations is returned when the service found nothing to suggest.
var ErrNoRecommendations = errors.New("no recommendations found")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

type request struct {
	MovieIDs []int64 `json:"movie_ids"`
}

type response struct {
	Recommendations []int64 `json:"recommendations"`
	Error           string  `json:"error,omitempty"`
}

// Recommend asks the recommendation service for movies related to movieIDs.
func (c *Client) Recommend(ctx context.Context, mode Mode, movieIDs []int64) ([]int64, error) {
	body, err := json.Marshal(request{MovieIDs: movieIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/recommendations/"+string(mode), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call recommendation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoRecommendations
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendation response: %w", err)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return nil, fmt.Errorf("recommendation service returned status %d: %s", resp.StatusCode, out.Error)
	}
	if len(out.Recommendations) == 0 {
		return nil, ErrNoRecommendations
	}
	return out.Recommendations, nil
}
