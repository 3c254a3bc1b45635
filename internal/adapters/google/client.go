// Package google adapts the Google Places Details API, which embeds up to
// five reviews in the place details payload.
package google

import (
	"context"
	"fmt"
	"net/url"

	"abroads_reviews/internal/adapters/upstream"
	"abroads_reviews/internal/domain"
)

type Client struct {
	base    string
	key     string
	placeID string
	core    *upstream.Client
}

// New never fails: missing credentials just leave the provider unconfigured.
func New(base, key, placeID string, rps int) *Client {
	return &Client{
		base:    base,
		key:     key,
		placeID: placeID,
		core:    upstream.New(string(domain.SourceGoogle), rps),
	}
}

func (c *Client) Name() domain.Source { return domain.SourceGoogle }

func (c *Client) Configured() bool { return c.key != "" && c.placeID != "" }

// Fetch returns the raw review objects from the place details result. A
// non-OK body-level status is an error even when HTTP succeeds.
func (c *Client) Fetch(ctx context.Context) ([]map[string]any, error) {
	if !c.Configured() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("place_id", c.placeID)
	q.Set("fields", "reviews,rating,user_ratings_total,name,formatted_address")
	q.Set("key", c.key)
	q.Set("language", "en")
	u := fmt.Sprintf("%s/details/json?%s", c.base, q.Encode())

	var out struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Result       struct {
			Reviews []map[string]any `json:"reviews"`
		} `json:"result"`
	}
	if err := c.core.GetJSON(ctx, "details", u, nil, &out); err != nil {
		return nil, fmt.Errorf("google place details: %w", err)
	}
	if out.Status != "OK" {
		return nil, fmt.Errorf("google place details: status %s: %s", out.Status, out.ErrorMessage)
	}
	return out.Result.Reviews, nil
}
