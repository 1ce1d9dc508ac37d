// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/gauge-autovoter/models"
)

// DefaultMulticallAddress is Multicall3, deployed at the same address on every EVM chain
const DefaultMulticallAddress = "0xcA11bde05977b3631167028862bE2a173976CA11"

const voterABIJSON = `[{
	"type": "function",
	"name": "get",
	"stateMutability": "view",
	"inputs": [
		{"name": "user", "type": "address"},
		{"name": "space", "type": "string"}
	],
	"outputs": [{
		"name": "",
		"type": "tuple",
		"internalType": "struct Voter.Vote",
		"components": [
			{"name": "user", "type": "address"},
			{"name": "killed", "type": "bool"},
			{"name": "gauges", "type": "address[]"},
			{"name": "weights", "type": "uint256[]"}
		]
	}]
}]`

const multicallABIJSON = `[{
	"type": "function",
	"name": "aggregate3",
	"stateMutability": "payable",
	"inputs": [{
		"name": "calls",
		"type": "tuple[]",
		"internalType": "struct Multicall3.Call3[]",
		"components": [
			{"name": "target", "type": "address"},
			{"name": "allowFailure", "type": "bool"},
			{"name": "callData", "type": "bytes"}
		]
	}],
	"outputs": [{
		"name": "returnData",
		"type": "tuple[]",
		"internalType": "struct Multicall3.Result[]",
		"components": [
			{"name": "success", "type": "bool"},
			{"name": "returnData", "type": "bytes"}
		]
	}]
}]`

var (
	VoterABI     = mustParseABI(voterABIJSON)
	MulticallABI = mustParseABI(multicallABIJSON)
)

var ErrVoteFetch = errors.New("failed to fetch vote")

// VoteFetchError is returned when the delegate's vote record cannot be read
type VoteFetchError struct {
	Space    string
	Delegate string
	Err      error
}

func (e *VoteFetchError) Error() string {
	return fmt.Sprintf("%s: space %s, delegate %s: %v", ErrVoteFetch, e.Space, e.Delegate, e.Err)
}

func (e *VoteFetchError) Is(target error) bool { return target == ErrVoteFetch }

func (e *VoteFetchError) Unwrap() error { return e.Err }

// Call3 is one Multicall3 aggregate3 call
type Call3 struct {
	Target       ethcommon.Address
	AllowFailure bool
	CallData     []byte
}

// Result is one Multicall3 aggregate3 result
type Result struct {
	Success    bool
	ReturnData []byte
}

// Record mirrors the Voter.Vote struct
type Record struct {
	User    ethcommon.Address
	Killed  bool
	Gauges  []ethcommon.Address
	Weights []*big.Int
}

// Reader reads delegate vote records from the voter contract through Multicall3
type Reader struct {
	caller    ethereum.ContractCaller
	voter     ethcommon.Address
	multicall ethcommon.Address
}

// Dial connects to an Ethereum JSON-RPC endpoint
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("could not instantiate ethereum client: %w", err)
	}
	return client, nil
}

func NewReader(caller ethereum.ContractCaller, voterContract, multicall ethcommon.Address) *Reader {
	if multicall == (ethcommon.Address{}) {
		multicall = ethcommon.HexToAddress(DefaultMulticallAddress)
	}
	return &Reader{
		caller:    caller,
		voter:     voterContract,
		multicall: multicall,
	}
}

// Get returns the vote record stored for delegate in space. A per-call
// failure reported by Multicall3 is a *VoteFetchError, as is a transport error.
func (r *Reader) Get(ctx context.Context, delegate ethcommon.Address, space string) (models.VoteRecord, error) {
	fail := func(err error) (models.VoteRecord, error) {
		return models.VoteRecord{}, &VoteFetchError{Space: space, Delegate: delegate.Hex(), Err: err}
	}

	getData, err := VoterABI.Pack("get", delegate, space)
	if err != nil {
		return fail(fmt.Errorf("failed to pack inputs: %w", err))
	}
	data, err := MulticallABI.Pack("aggregate3", []Call3{{Target: r.voter, AllowFailure: true, CallData: getData}})
	if err != nil {
		return fail(fmt.Errorf("failed to pack multicall: %w", err))
	}

	output, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.multicall, Data: data}, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to call contract: %w", err))
	}

	results, err := UnpackResults(output)
	if err != nil {
		return fail(err)
	}
	if len(results) != 1 {
		return fail(fmt.Errorf("expected 1 multicall result, got %d", len(results)))
	}
	if !results[0].Success {
		return fail(errors.New("voter call reverted"))
	}

	record, err := UnpackRecord(results[0].ReturnData)
	if err != nil {
		return fail(err)
	}
	out, err := record.toModel()
	if err != nil {
		return fail(err)
	}
	return out, nil
}

// UnpackResults decodes aggregate3 return data
func UnpackResults(output []byte) ([]Result, error) {
	values, err := MulticallABI.Unpack("aggregate3", output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack multicall result: %w", err)
	}
	results := *abi.ConvertType(values[0], new([]Result)).(*[]Result)
	return results, nil
}

// UnpackRecord decodes the return data of Voter.get
func UnpackRecord(output []byte) (Record, error) {
	values, err := VoterABI.Unpack("get", output)
	if err != nil {
		return Record{}, fmt.Errorf("failed to unpack vote record: %w", err)
	}
	return *abi.ConvertType(values[0], new(Record)).(*Record), nil
}

func (rec Record) toModel() (models.VoteRecord, error) {
	if len(rec.Gauges) != len(rec.Weights) {
		return models.VoteRecord{}, fmt.Errorf("vote record has %d gauges but %d weights", len(rec.Gauges), len(rec.Weights))
	}

	out := models.VoteRecord{
		User:    rec.User.Hex(),
		Killed:  rec.Killed,
		Gauges:  make([]string, len(rec.Gauges)),
		Weights: make([]decimal.Decimal, len(rec.Weights)),
	}
	for i, g := range rec.Gauges {
		out.Gauges[i] = g.Hex()
	}
	for i, w := range rec.Weights {
		out.Weights[i] = decimal.NewFromBigInt(w, 0)
	}
	return out, nil
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
