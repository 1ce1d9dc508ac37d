// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the gauge autovoter.

The autovoter is a batch job: each run looks up the latest "Gauge vote"
proposal of every configured Snapshot space, resolves the delegated gauge
allocations against the proposal's choices and casts one weighted vote
per space. It is meant to be started on a schedule (cron, CI).

# Running

Config mode reads allocations from the JSON file and only votes in spaces
listed by the active lockers registry:

	DELEGATION_PRIVATE_KEY=0x... go run . -c data/config.json

Onchain mode reads allocations from the voter contract for a delegate:

	DELEGATION_PRIVATE_KEY=0x... PUBLIC_ADDRESS=0x... MAINNET_RPC_URL=https://... \
		go run . -mode onchain

Add -dry-run to build and log votes without sending them.

# Exit Status

The process exits 1 when configuration is invalid, the registry can't be
fetched, or any space failed. Spaces with nothing to vote on are skipped
and do not affect the exit status.

# Architecture

  - cliparse: Configuration parsing (flags, env, .env, JSON file)
  - runner: Per-space processing and the run report
  - sources: Allocation sources for both modes
  - gauges: Choice parsing, allocation matching, vote payload
  - snapshot: Proposal queries and signed vote submission
  - voter: On-chain vote records via Multicall3
  - lockers: Active lockers registry
  - auth: Delegate signing key
  - middleware: HTTP client logging and JSON helpers
  - models: Shared types

See package documentation for each component.
*/
package main
