// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"

	"github.com/danielhkuo/gauge-autovoter/models"
)

// DefaultHubURL is the public Snapshot hub
const DefaultHubURL = "https://hub.snapshot.org"

const latestProposalQuery = `
query Proposals($space: String!, $title: String!) {
	proposals(
		first: 1,
		where: { space_in: [$space], title_contains: $title },
		orderBy: "created",
		orderDirection: desc
	) {
		id
		title
		choices
		start
		end
		state
	}
}`

// ProposalClient queries the hub's GraphQL API
type ProposalClient struct {
	gql *graphql.Client
}

func NewProposalClient(hubURL string, httpClient *http.Client) *ProposalClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProposalClient{
		gql: graphql.NewClient(GraphQLURL(hubURL), graphql.WithHTTPClient(httpClient)),
	}
}

// LatestGaugeVote returns the most recently created proposal of space whose
// title contains "Gauge vote", or nil if there is none.
func (c *ProposalClient) LatestGaugeVote(ctx context.Context, space string) (*models.Proposal, error) {
	req := graphql.NewRequest(latestProposalQuery)
	req.Var("space", space)
	req.Var("title", models.GaugeVoteTitle)

	var resp struct {
		Proposals []models.Proposal `json:"proposals"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to query proposals of %s: %w", space, err)
	}

	if len(resp.Proposals) == 0 {
		return nil, nil
	}
	proposal := resp.Proposals[0]
	return &proposal, nil
}

// GraphQLURL returns the GraphQL endpoint of a hub
func GraphQLURL(hubURL string) string {
	return baseURL(hubURL) + "/graphql"
}

// MessageURL returns the endpoint signed messages are posted to
func MessageURL(hubURL string) string {
	return baseURL(hubURL) + "/api/msg"
}

// baseURL accepts both "https://hub.snapshot.org" and ".../graphql"
func baseURL(hubURL string) string {
	u := strings.TrimRight(strings.TrimSpace(hubURL), "/")
	if u == "" {
		u = DefaultHubURL
	}
	return strings.TrimSuffix(u, "/graphql")
}
