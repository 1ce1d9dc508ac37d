// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voter reads delegated vote records from the on-chain voter contract.

Each lookup calls Voter.get(delegate, space) through Multicall3's
aggregate3 with allowFailure set, so a reverted call comes back as a
failed result instead of a transport error:

	eth, err := voter.Dial(ctx, cfg.RPCURL)
	reader := voter.NewReader(eth, voterAddr, ethcommon.Address{})
	rec, err := reader.Get(ctx, delegate, "sdcrv.eth")

The zero address selects DefaultMulticallAddress. Both failure kinds are
returned as *VoteFetchError (errors.Is(err, voter.ErrVoteFetch)).
*/
package voter
