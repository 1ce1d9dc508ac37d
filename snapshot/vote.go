// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/danielhkuo/gauge-autovoter/gauges"
	"github.com/danielhkuo/gauge-autovoter/middleware"
)

// EIP-712 domain used by the hub for every message type
const (
	DomainName    = "snapshot"
	DomainVersion = "0.1.4"
)

// Signer signs EIP-712 digests on behalf of the delegate
type Signer interface {
	Address() ethcommon.Address
	SignHash(hash []byte) ([]byte, error)
}

var domainTypes = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
}

// voteTypes returns the Vote type for a weighted choice. Proposal ids that
// are 0x hashes are typed bytes32, older IPFS ids are strings.
func voteTypes(proposalID string) []apitypes.Type {
	proposalType := "string"
	if strings.HasPrefix(proposalID, "0x") {
		proposalType = "bytes32"
	}
	return []apitypes.Type{
		{Name: "from", Type: "address"},
		{Name: "space", Type: "string"},
		{Name: "timestamp", Type: "uint64"},
		{Name: "proposal", Type: proposalType},
		{Name: "choice", Type: "string"},
		{Name: "reason", Type: "string"},
		{Name: "app", Type: "string"},
		{Name: "metadata", Type: "string"},
	}
}

// Domain is the EIP-712 domain as sent to the hub
type Domain struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// VoteMessage is the signed vote. Choice holds the JSON encoded weights.
type VoteMessage struct {
	From      string `json:"from"`
	Space     string `json:"space"`
	Timestamp int64  `json:"timestamp"`
	Proposal  string `json:"proposal"`
	Choice    string `json:"choice"`
	Reason    string `json:"reason"`
	App       string `json:"app"`
	Metadata  string `json:"metadata"`
}

func (m VoteMessage) typed() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"from":      m.From,
		"space":     m.Space,
		"timestamp": big.NewInt(m.Timestamp),
		"proposal":  m.Proposal,
		"choice":    m.Choice,
		"reason":    m.Reason,
		"app":       m.App,
		"metadata":  m.Metadata,
	}
}

// Envelope is the body posted to /api/msg
type Envelope struct {
	Address string       `json:"address"`
	Sig     string       `json:"sig"`
	Data    EnvelopeData `json:"data"`
}

type EnvelopeData struct {
	Domain  Domain                     `json:"domain"`
	Types   map[string][]apitypes.Type `json:"types"`
	Message VoteMessage                `json:"message"`
}

// TypedData rebuilds the EIP-712 structure the envelope was signed over
func (d EnvelopeData) TypedData() apitypes.TypedData {
	types := apitypes.Types{"EIP712Domain": domainTypes}
	for name, fields := range d.Types {
		types[name] = fields
	}
	return apitypes.TypedData{
		Types:       types,
		PrimaryType: "Vote",
		Domain: apitypes.TypedDataDomain{
			Name:    d.Domain.Name,
			Version: d.Domain.Version,
		},
		Message: d.Message.typed(),
	}
}

// Receipt is the hub's answer to an accepted message
type Receipt struct {
	ID   string `json:"id"`
	IPFS string `json:"ipfs"`
}

// VoteClient signs weighted votes and posts them to the hub
type VoteClient struct {
	url    string
	http   *http.Client
	signer Signer
	now    func() time.Time
}

func NewVoteClient(hubURL string, httpClient *http.Client, signer Signer) *VoteClient {
	return &VoteClient{
		url:    MessageURL(hubURL),
		http:   httpClient,
		signer: signer,
		now:    time.Now,
	}
}

// Vote casts a weighted vote on proposalID and returns the hub receipt id
func (c *VoteClient) Vote(ctx context.Context, space, proposalID string, vote gauges.Vote) (string, error) {
	envelope, err := c.Envelope(space, proposalID, vote)
	if err != nil {
		return "", err
	}

	var receipt Receipt
	if err := middleware.PostJSON(ctx, c.http, c.url, envelope, &receipt); err != nil {
		return "", fmt.Errorf("failed to submit vote on %s: %w", space, err)
	}
	return receipt.ID, nil
}

// Envelope builds and signs the message for a weighted vote
func (c *VoteClient) Envelope(space, proposalID string, vote gauges.Vote) (*Envelope, error) {
	if err := vote.Validate(); err != nil {
		return nil, err
	}

	choice, err := json.Marshal(vote)
	if err != nil {
		return nil, fmt.Errorf("failed to encode choice: %w", err)
	}

	from := c.signer.Address().Hex()
	data := EnvelopeData{
		Domain: Domain{Name: DomainName, Version: DomainVersion},
		Types:  map[string][]apitypes.Type{"Vote": voteTypes(proposalID)},
		Message: VoteMessage{
			From:      from,
			Space:     space,
			Timestamp: c.now().Unix(),
			Proposal:  proposalID,
			Choice:    string(choice),
			Reason:    "",
			App:       "",
			Metadata:  "{}",
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(data.TypedData())
	if err != nil {
		return nil, fmt.Errorf("failed to hash vote: %w", err)
	}
	sig, err := c.signer.SignHash(hash)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Address: from,
		Sig:     hexutil.Encode(sig),
		Data:    data,
	}, nil
}
