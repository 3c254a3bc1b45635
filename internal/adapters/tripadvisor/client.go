// Package tripadvisor adapts the TripAdvisor Content API v1 reviews endpoint.
package tripadvisor

import (
	"context"
	"fmt"
	"net/url"

	"abroads_reviews/internal/adapters/upstream"
	"abroads_reviews/internal/domain"
)

const reviewLimit = 20 // max reviews per Content API request

type Client struct {
	base       string
	key        string
	locationID string
	core       *upstream.Client
}

// New never fails: an empty key just leaves the provider unconfigured.
func New(base, key, locationID string, rps int) *Client {
	return &Client{
		base:       base,
		key:        key,
		locationID: locationID,
		core:       upstream.New(string(domain.SourceTripAdvisor), rps),
	}
}

func (c *Client) Name() domain.Source { return domain.SourceTripAdvisor }

func (c *Client) Configured() bool { return c.key != "" && c.locationID != "" }

// Fetch returns the raw review objects from the Content API "data" envelope.
func (c *Client) Fetch(ctx context.Context) ([]map[string]any, error) {
	if !c.Configured() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("key", c.key)
	q.Set("language", "en")
	q.Set("limit", fmt.Sprintf("%d", reviewLimit))
	u := fmt.Sprintf("%s/location/%s/reviews?%s", c.base, url.PathEscape(c.locationID), q.Encode())

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.core.GetJSON(ctx, "reviews", u, nil, &out); err != nil {
		return nil, fmt.Errorf("tripadvisor reviews: %w", err)
	}
	return out.Data, nil
}
