// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sources provides the delegated allocations for each run mode.

  - OnchainSource: one Voter.get record per space for a fixed delegate.
    A record owned by another address or marked killed is a skip.
  - ConfigSource: (space, gaugeAddress, weight) entries from the JSON
    file, restricted to spaces listed by the lockers registry.

Both satisfy runner.AllocationSource:

	src := sources.NewConfigSource(file.Votes, lockers.NewClient(cfg.LockersURL, httpClient))
	if err := src.Prepare(ctx); err != nil { ... }
	for _, space := range src.Spaces() {
		if !src.Active(space) {
			continue
		}
		allocs, err := src.Allocations(ctx, space)
	}
*/
package sources
