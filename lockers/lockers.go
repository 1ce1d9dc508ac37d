// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lockers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielhkuo/gauge-autovoter/middleware"
	"github.com/danielhkuo/gauge-autovoter/models"
)

// DefaultURL is the Stake DAO registry of lockers the autovoter may vote for
const DefaultURL = "https://autovoter.stakedao.org/lockers/lockers.json"

// Spaces is a case-insensitive set of space ids
type Spaces map[string]struct{}

// NewSpaces builds a set from space ids
func NewSpaces(spaces ...string) Spaces {
	s := make(Spaces, len(spaces))
	for _, space := range spaces {
		if space = strings.TrimSpace(space); space != "" {
			s[strings.ToLower(space)] = struct{}{}
		}
	}
	return s
}

// Contains reports whether space is in the set
func (s Spaces) Contains(space string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(space))]
	return ok
}

// Client reads the lockers registry
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, http: httpClient}
}

// ActiveSpaces fetches the registry and returns the spaces it lists
func (c *Client) ActiveSpaces(ctx context.Context) (Spaces, error) {
	var lockers []models.Locker
	if err := middleware.GetJSON(ctx, c.http, c.url, &lockers); err != nil {
		return nil, fmt.Errorf("failed to fetch lockers registry: %w", err)
	}

	spaces := make([]string, 0, len(lockers))
	for _, l := range lockers {
		spaces = append(spaces, l.Space)
	}
	return NewSpaces(spaces...), nil
}
