// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sources

import (
	"context"
	"errors"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/gauge-autovoter/lockers"
	"github.com/danielhkuo/gauge-autovoter/models"
	"github.com/danielhkuo/gauge-autovoter/testutil"
)

var delegate = ethcommon.HexToAddress(testutil.TestAddress)

type fakeReader struct {
	records map[string]models.VoteRecord
	err     error
}

func (f fakeReader) Get(ctx context.Context, d ethcommon.Address, space string) (models.VoteRecord, error) {
	if f.err != nil {
		return models.VoteRecord{}, f.err
	}
	return f.records[space], nil
}

func weights(ws ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ws))
	for i, w := range ws {
		out[i] = decimal.NewFromInt(w)
	}
	return out
}

func TestOnchainSource_Allocations(t *testing.T) {
	reader := fakeReader{records: map[string]models.VoteRecord{
		"sdcrv.eth": {
			// checksum casing differs from the configured address
			User:    "0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266",
			Gauges:  []string{"0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222"},
			Weights: weights(70, 30),
		},
		"sdbal.eth": {
			User:    testutil.TestAddress,
			Killed:  true,
			Gauges:  []string{"0x1111111111111111111111111111111111111111"},
			Weights: weights(100),
		},
		"sdfxs.eth": {
			User: "0x0000000000000000000000000000000000000000",
		},
	}}
	src := NewOnchainSource(reader, delegate, []string{"sdcrv.eth", "sdbal.eth", "sdfxs.eth", "sdcrv.eth", " "})

	require.NoError(t, src.Prepare(context.Background()))
	assert.Equal(t, []string{"sdcrv.eth", "sdbal.eth", "sdfxs.eth"}, src.Spaces())
	assert.True(t, src.Active("anything"))

	allocs, err := src.Allocations(context.Background(), "sdcrv.eth")
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "sdcrv.eth", allocs[1].Space)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", allocs[1].GaugeAddress)
	assert.True(t, allocs[1].Weight.Equal(decimal.NewFromInt(30)))

	tests := []struct {
		space  string
		reason string
	}{
		{"sdbal.eth", "killed"},
		{"sdfxs.eth", "no vote record"},
	}
	for _, tt := range tests {
		t.Run(tt.space, func(t *testing.T) {
			_, err := src.Allocations(context.Background(), tt.space)
			var skip *models.SkipError
			require.True(t, errors.As(err, &skip), "expected skip, got %v", err)
			assert.Contains(t, skip.Reason, tt.reason)
		})
	}
}

func TestOnchainSource_ReaderError(t *testing.T) {
	boom := errors.New("failed to fetch vote")
	src := NewOnchainSource(fakeReader{err: boom}, delegate, []string{"sdcrv.eth"})

	_, err := src.Allocations(context.Background(), "sdcrv.eth")
	assert.ErrorIs(t, err, boom)

	var skip *models.SkipError
	assert.False(t, errors.As(err, &skip))
}

func TestOnchainSource_KeepsSpaceCase(t *testing.T) {
	src := NewOnchainSource(fakeReader{}, delegate, []string{"SDCRV.eth", "sdcrv.eth"})
	assert.Equal(t, []string{"SDCRV.eth", "sdcrv.eth"}, src.Spaces())
}

type fakeRegistry struct {
	spaces lockers.Spaces
	err    error
}

func (f fakeRegistry) ActiveSpaces(ctx context.Context) (lockers.Spaces, error) {
	return f.spaces, f.err
}

func configVotes() []models.Allocation {
	return []models.Allocation{
		{Space: "sdcrv.eth", GaugeAddress: "0x1111111111111111111111111111111111111111", Weight: decimal.NewFromInt(1)},
		{Space: "SDBAL.eth", GaugeAddress: "0x3333333333333333333333333333333333333333", Weight: decimal.NewFromInt(2)},
		{Space: "SDCRV.ETH", GaugeAddress: "0x2222222222222222222222222222222222222222", Weight: decimal.NewFromInt(3)},
	}
}

func TestConfigSource(t *testing.T) {
	src := NewConfigSource(configVotes(), fakeRegistry{spaces: lockers.NewSpaces("sdcrv.eth")})

	assert.Equal(t, []string{"sdcrv.eth", "sdbal.eth"}, src.Spaces())

	require.NoError(t, src.Prepare(context.Background()))
	assert.True(t, src.Active("sdcrv.eth"))
	assert.False(t, src.Active("sdbal.eth"))

	allocs, err := src.Allocations(context.Background(), "sdcrv.eth")
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", allocs[0].GaugeAddress)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", allocs[1].GaugeAddress)

	_, err = src.Allocations(context.Background(), "sdfxs.eth")
	var skip *models.SkipError
	assert.True(t, errors.As(err, &skip))
}

func TestConfigSource_NotActiveBeforePrepare(t *testing.T) {
	src := NewConfigSource(configVotes(), fakeRegistry{})
	assert.False(t, src.Active("sdcrv.eth"))
}

func TestConfigSource_RegistryError(t *testing.T) {
	boom := errors.New("registry down")
	src := NewConfigSource(configVotes(), fakeRegistry{err: boom})
	assert.ErrorIs(t, src.Prepare(context.Background()), boom)
}

func TestConfigSource_WithRegistryClient(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	hub.SetLockers("sdbal.eth")

	src := NewConfigSource(configVotes(), lockers.NewClient(hub.LockersURL(), nil))
	require.NoError(t, src.Prepare(context.Background()))

	assert.True(t, src.Active("sdbal.eth"))
	assert.False(t, src.Active("sdcrv.eth"))
}
