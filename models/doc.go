// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types shared by the autovoter packages.

# Domain Types

  - Proposal: latest "Gauge vote" proposal of a space (id, choices, window)
  - Allocation: one delegated (space, gaugeAddress, weight) entry
  - VoteRecord: a delegate's stored vote on the voter contract
  - Locker: an entry of the active lockers registry
  - FileConfig: the static JSON configuration file
  - Outcome: per-space result of a run
  - ErrorResponse: error body returned by the Snapshot hub

Weights are decimals so that a JSON number, a JSON string or a uint256
read from the chain all decode to the same type.

# Skips

Expected "nothing to do" conditions are reported as *SkipError:

	return models.Skip("delegate record killed")

The runner records them as skipped outcomes, never as failures.

# Constants

Outcome status:

	StatusVoted   = "voted"
	StatusDryRun  = "dry-run"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"

Run mode:

	ModeConfig  = "config"
	ModeOnchain = "onchain"
*/
package models
