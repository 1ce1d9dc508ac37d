// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gauges

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/gauge-autovoter/models"
)

// MaxWeight is the largest weight the hub can read back without losing precision (2^53-1).
const MaxWeight = 1<<53 - 1

var maxWeight = decimal.NewFromInt(MaxWeight)

var ErrEmptyVote = errors.New("vote has no weighted choices")

// Vote maps a 1-based choice index to an integer weight.
type Vote map[int]uint64

// Choice is one (index, weight) pair of a Vote.
type Choice struct {
	Index  int
	Weight uint64
}

// BuildVote resolves every allocation against the proposal's choices.
// Allocations resolving to the same choice overwrite each other (last wins).
// The first allocation that cannot be resolved aborts the whole vote.
func BuildVote(choices ChoiceMap, allocations []models.Allocation) (Vote, error) {
	vote := make(Vote, len(allocations))

	for _, alloc := range allocations {
		prefix := Prefix(alloc.GaugeAddress)

		idx, ok := choices.Lookup(prefix)
		if !ok {
			return nil, &UnresolvedGaugeError{Space: alloc.Space, Gauge: alloc.GaugeAddress, Prefix: prefix}
		}
		if clash := choices.Collisions(prefix); len(clash) > 1 {
			return nil, &AmbiguousGaugeError{Space: alloc.Space, Gauge: alloc.GaugeAddress, Prefix: prefix, Choices: clash}
		}

		weight, err := CoerceWeight(alloc.Weight)
		if err != nil {
			return nil, &InvalidWeightError{Space: alloc.Space, Gauge: alloc.GaugeAddress, Weight: alloc.Weight.String(), Err: err}
		}

		vote[idx] = weight
	}

	return vote, nil
}

// CoerceWeight converts a decimal weight into the integer the hub expects.
func CoerceWeight(w decimal.Decimal) (uint64, error) {
	if w.IsNegative() {
		return 0, errors.New("weight is negative")
	}
	if !w.IsInteger() {
		return 0, errors.New("weight is not an integer")
	}
	if w.GreaterThan(maxWeight) {
		return 0, fmt.Errorf("weight exceeds %d", int64(MaxWeight))
	}
	return uint64(w.IntPart()), nil
}

// Pairs returns the vote's choices ordered by index.
func (v Vote) Pairs() []Choice {
	pairs := make([]Choice, 0, len(v))
	for idx, w := range v {
		pairs = append(pairs, Choice{Index: idx, Weight: w})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Index < pairs[j].Index
	})
	return pairs
}

// Total is the sum of all weights.
func (v Vote) Total() uint64 {
	var total uint64
	for _, w := range v {
		total += w
	}
	return total
}

// Validate checks the vote before it leaves the process.
func (v Vote) Validate() error {
	if len(v) == 0 {
		return ErrEmptyVote
	}
	for idx, w := range v {
		if idx < 1 {
			return fmt.Errorf("invalid choice index %d", idx)
		}
		if w > MaxWeight {
			return fmt.Errorf("choice %d: weight %d exceeds %d", idx, w, int64(MaxWeight))
		}
	}
	return nil
}

// MarshalJSON encodes the vote as the hub's weighted choice object, keys in
// ascending numeric order: {"1":5,"3":2}.
func (v Vote) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range v.Pairs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(p.Index))
		buf.WriteString(`":`)
		buf.WriteString(strconv.FormatUint(p.Weight, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v Vote) String() string {
	b, _ := v.MarshalJSON()
	return string(b)
}
