// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package snapshot talks to a Snapshot hub.

# Proposals

ProposalClient asks the hub's GraphQL API for the most recently created
proposal of a space whose title contains "Gauge vote":

	proposals := snapshot.NewProposalClient(cfg.HubURL, httpClient)
	p, err := proposals.LatestGaugeVote(ctx, "sdcrv.eth")

A nil proposal with a nil error means the space has none.

# Votes

VoteClient signs a weighted vote as EIP-712 typed data (domain "snapshot",
version "0.1.4") and posts the envelope to <hub>/api/msg:

	votes := snapshot.NewVoteClient(cfg.HubURL, httpClient, signer)
	receipt, err := votes.Vote(ctx, space, proposal.ID, vote)

The choice field is the JSON weight object, e.g. {"1":5,"3":2}. Hub
rejections surface as *middleware.StatusError.
*/
package snapshot
