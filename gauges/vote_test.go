// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gauges

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/gauge-autovoter/models"
)

func alloc(gauge, weight string) models.Allocation {
	return models.Allocation{
		Space:        "sdcrv.eth",
		GaugeAddress: gauge,
		Weight:       decimal.RequireFromString(weight),
	}
}

func TestBuildVote_Scenario(t *testing.T) {
	choices := ParseChoices([]string{
		"Pool A - 0x1111111111111111111…",
		"Pool B - 0x2222222222222222222…",
	})

	vote, err := BuildVote(choices, []models.Allocation{alloc("0x22222222222222229999", "5")})
	require.NoError(t, err)
	assert.Equal(t, Vote{2: 5}, vote)

	b, err := json.Marshal(vote)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2": 5}`, string(b))
}

func TestBuildVote(t *testing.T) {
	choices := ParseChoices([]string{
		"Pool A - 0x1111111111111111111…",
		"Pool B - 0x2222222222222222222…",
		"Pool C - 0xaAaAaAaAaAaAaAaAaAa…",
		"Dup 1 - 0x7777777777777777000…",
		"Dup 2 - 0x7777777777777777111…",
	})

	tests := []struct {
		name    string
		allocs  []models.Allocation
		want    Vote
		wantErr error
	}{
		{
			name:   "no allocations",
			allocs: nil,
			want:   Vote{},
		},
		{
			name: "case-insensitive match",
			allocs: []models.Allocation{
				alloc("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "10"),
				alloc("0x1111111111111111111111111111111111111111", "3"),
			},
			want: Vote{1: 3, 3: 10},
		},
		{
			name: "same choice twice keeps the later weight",
			allocs: []models.Allocation{
				alloc("0x1111111111111111aaaa", "4"),
				alloc("0x1111111111111111bbbb", "6"),
			},
			want: Vote{1: 6},
		},
		{
			name: "unknown gauge",
			allocs: []models.Allocation{
				alloc("0x1111111111111111111111111111111111111111", "3"),
				alloc("0x9999999999999999999999999999999999999999", "1"),
			},
			wantErr: ErrUnresolvedGauge,
		},
		{
			name:    "colliding prefix",
			allocs:  []models.Allocation{alloc("0x7777777777777777111", "1")},
			wantErr: ErrAmbiguousGauge,
		},
		{
			name:    "fractional weight",
			allocs:  []models.Allocation{alloc("0x2222222222222222", "1.5")},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "negative weight",
			allocs:  []models.Allocation{alloc("0x2222222222222222", "-1")},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "weight above 2^53-1",
			allocs:  []models.Allocation{alloc("0x2222222222222222", "9007199254740992")},
			wantErr: ErrInvalidWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote, err := BuildVote(choices, tt.allocs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, vote, "no partial vote on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, vote)
		})
	}
}

func TestBuildVote_UnresolvedGaugeFields(t *testing.T) {
	choices := ParseChoices([]string{"Pool A - 0x1111111111111111111…"})

	_, err := BuildVote(choices, []models.Allocation{alloc("0xBEEFBEEFBEEFBEEFBEEF", "1")})

	var unresolved *UnresolvedGaugeError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "sdcrv.eth", unresolved.Space)
	assert.Equal(t, "0xbeefbeefbeefbee", unresolved.Prefix)
}

func TestCoerceWeight(t *testing.T) {
	w, err := CoerceWeight(decimal.RequireFromString("10000"))
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), w)

	w, err = CoerceWeight(decimal.RequireFromString("7.000"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), w)

	_, err = CoerceWeight(decimal.RequireFromString("0.1"))
	assert.Error(t, err)
}

func TestVote_MarshalJSONOrdersKeysNumerically(t *testing.T) {
	vote := Vote{10: 1, 2: 5, 1: 7}

	b, err := vote.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"1":7,"2":5,"10":1}`, string(b))
	assert.Equal(t, `{}`, Vote{}.String())
}

func TestVote_Validate(t *testing.T) {
	assert.ErrorIs(t, Vote{}.Validate(), ErrEmptyVote)
	assert.Error(t, Vote{0: 1}.Validate())
	assert.Error(t, Vote{1: MaxWeight + 1}.Validate())
	assert.NoError(t, Vote{1: 1, 4: 0}.Validate())
}

func TestVote_Pairs(t *testing.T) {
	pairs := Vote{3: 30, 1: 10}.Pairs()
	assert.Equal(t, []Choice{{Index: 1, Weight: 10}, {Index: 3, Weight: 30}}, pairs)
}

func TestVote_Total(t *testing.T) {
	assert.Equal(t, uint64(0), Vote{}.Total())
	assert.Equal(t, uint64(0), Vote{2: 0}.Total())
	assert.Equal(t, uint64(40), Vote{3: 30, 1: 10}.Total())
}
