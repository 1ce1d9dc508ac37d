// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/gauge-autovoter/auth"
	"github.com/danielhkuo/gauge-autovoter/gauges"
	"github.com/danielhkuo/gauge-autovoter/middleware"
	"github.com/danielhkuo/gauge-autovoter/testutil"
)

func TestHubURLs(t *testing.T) {
	tests := []struct {
		hub     string
		graphql string
		msg     string
	}{
		{"https://hub.snapshot.org", "https://hub.snapshot.org/graphql", "https://hub.snapshot.org/api/msg"},
		{"https://hub.snapshot.org/", "https://hub.snapshot.org/graphql", "https://hub.snapshot.org/api/msg"},
		{"https://hub.snapshot.org/graphql", "https://hub.snapshot.org/graphql", "https://hub.snapshot.org/api/msg"},
		{"", DefaultHubURL + "/graphql", DefaultHubURL + "/api/msg"},
	}

	for _, tt := range tests {
		t.Run(tt.hub, func(t *testing.T) {
			assert.Equal(t, tt.graphql, GraphQLURL(tt.hub))
			assert.Equal(t, tt.msg, MessageURL(tt.hub))
		})
	}
}

func TestLatestGaugeVote(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	now := time.Now()
	want := testutil.OpenProposal(testutil.ProposalID(1), now, "Pool A - 0x1111111111111111111…")
	hub.SetProposal("sdcrv.eth", want)

	client := NewProposalClient(hub.URL(), middleware.NewClient(time.Second))

	got, err := client.LatestGaugeVote(context.Background(), "sdcrv.eth")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// no proposal is not an error
	got, err = client.LatestGaugeVote(context.Background(), "sdbal.eth")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, []string{"sdcrv.eth", "sdbal.eth"}, hub.Queried())
}

func TestLatestGaugeVote_GraphQLError(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	hub.GraphQLErrors = []string{"rate limited"}

	client := NewProposalClient(hub.URL(), nil)

	_, err := client.LatestGaugeVote(context.Background(), "sdcrv.eth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func newTestVoteClient(t *testing.T, hubURL string) *VoteClient {
	t.Helper()
	signer, err := auth.FromHex(testutil.TestPrivateKey)
	require.NoError(t, err)

	c := NewVoteClient(hubURL, middleware.NewClient(time.Second), signer)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

// recoverSigner checks an envelope signature against its own typed data
func recoverSigner(t *testing.T, env Envelope) string {
	t.Helper()
	hash, _, err := apitypes.TypedDataAndHash(env.Data.TypedData())
	require.NoError(t, err)

	sig, err := hexutil.Decode(env.Sig)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	sig[64] -= 27

	pub, err := crypto.SigToPub(hash, sig)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(*pub).Hex()
}

func TestEnvelope(t *testing.T) {
	c := newTestVoteClient(t, "http://unused")

	tests := []struct {
		name         string
		proposalID   string
		proposalType string
	}{
		{"hex proposal id", testutil.ProposalID(7), "bytes32"},
		{"ipfs proposal id", "QmWbpCtwdLzxuLKnMW4Vv4MPFd2pdPX71YBKPasfZxqLUS", "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := c.Envelope("sdcrv.eth", tt.proposalID, gauges.Vote{2: 5, 10: 1})
			require.NoError(t, err)

			assert.Equal(t, testutil.TestAddress, env.Address)
			assert.Equal(t, Domain{Name: "snapshot", Version: "0.1.4"}, env.Data.Domain)

			msg := env.Data.Message
			assert.Equal(t, testutil.TestAddress, msg.From)
			assert.Equal(t, "sdcrv.eth", msg.Space)
			assert.Equal(t, int64(1700000000), msg.Timestamp)
			assert.Equal(t, tt.proposalID, msg.Proposal)
			assert.Equal(t, `{"2":5,"10":1}`, msg.Choice)
			assert.Equal(t, "{}", msg.Metadata)

			fields := env.Data.Types["Vote"]
			require.Len(t, fields, 8)
			assert.Equal(t, apitypes.Type{Name: "proposal", Type: tt.proposalType}, fields[3])
			assert.Equal(t, apitypes.Type{Name: "choice", Type: "string"}, fields[4])
			assert.NotContains(t, env.Data.Types, "EIP712Domain")

			assert.Equal(t, testutil.TestAddress, recoverSigner(t, *env))
		})
	}
}

func TestEnvelope_RejectsEmptyVote(t *testing.T) {
	c := newTestVoteClient(t, "http://unused")

	_, err := c.Envelope("sdcrv.eth", testutil.ProposalID(1), gauges.Vote{})
	assert.ErrorIs(t, err, gauges.ErrEmptyVote)
}

func TestVote(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	c := newTestVoteClient(t, hub.URL())

	receipt, err := c.Vote(context.Background(), "sdcrv.eth", testutil.ProposalID(3), gauges.Vote{1: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt)

	msgs := hub.Messages()
	require.Len(t, msgs, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal(msgs[0], &env))
	assert.Equal(t, `{"1":100}`, env.Data.Message.Choice)
	assert.Equal(t, testutil.TestAddress, recoverSigner(t, env))
}

func TestVote_HubRejects(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	hub.MsgStatus = http.StatusBadRequest
	c := newTestVoteClient(t, hub.URL())

	_, err := c.Vote(context.Background(), "sdcrv.eth", testutil.ProposalID(3), gauges.Vote{1: 100})

	var statusErr *middleware.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "vote rejected")
	assert.Empty(t, hub.Messages())
}
