// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gauges turns a proposal's choice strings and a list of delegated
allocations into a weighted vote.

# Choice Parsing

Snapshot gauge vote choices look like

	Curve 3pool - 0xbFcF63294aD7105d…

ParseChoices keeps only choices with a " - " separator, at least 17
characters after it and an ellipsis closing the address. The text between
the last separator and the last ellipsis is lowercased and cut to
PrefixLen characters; that prefix maps to the 1-based choice index:

	choices := gauges.ParseChoices(proposal.Choices)
	idx, ok := choices.Lookup(gauges.Prefix(gaugeAddress))

Later choices overwrite earlier ones with the same prefix. The clash is
remembered and exposed through Collisions.

# Vote Building

BuildVote resolves each allocation and returns a Vote (choice index to
weight). It fails with:

  - *UnresolvedGaugeError when a gauge prefix matches no choice
  - *AmbiguousGaugeError when the prefix was claimed by several choices
  - *InvalidWeightError when a weight is negative, fractional or above 2^53-1

Two allocations on the same choice do not add up; the later one wins.

# Encoding

Vote.MarshalJSON writes the hub's weighted choice object with keys in
ascending numeric order, e.g. {"2":5,"10":1}.
*/
package gauges
