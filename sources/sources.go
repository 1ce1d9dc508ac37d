// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sources

import (
	"context"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/gauge-autovoter/lockers"
	"github.com/danielhkuo/gauge-autovoter/models"
)

// RecordReader reads a delegate's vote record for a space
type RecordReader interface {
	Get(ctx context.Context, delegate ethcommon.Address, space string) (models.VoteRecord, error)
}

// Registry lists the spaces that may be voted on
type Registry interface {
	ActiveSpaces(ctx context.Context) (lockers.Spaces, error)
}

// OnchainSource reads allocations from the voter contract
type OnchainSource struct {
	reader   RecordReader
	delegate ethcommon.Address
	spaces   []string
}

func NewOnchainSource(reader RecordReader, delegate ethcommon.Address, spaces []string) *OnchainSource {
	return &OnchainSource{
		reader:   reader,
		delegate: delegate,
		spaces:   dedupe(spaces, false),
	}
}

func (s *OnchainSource) Prepare(ctx context.Context) error { return nil }

func (s *OnchainSource) Spaces() []string { return s.spaces }

// Active is always true; the contract record decides
func (s *OnchainSource) Active(space string) bool { return true }

// Allocations returns the delegate's gauges and weights for space. A record
// owned by someone else (the contract's empty default) or a killed record
// is a skip, not an error.
func (s *OnchainSource) Allocations(ctx context.Context, space string) ([]models.Allocation, error) {
	rec, err := s.reader.Get(ctx, s.delegate, space)
	if err != nil {
		return nil, err
	}

	if !models.EqualFold(rec.User, s.delegate.Hex()) {
		return nil, models.Skip("no vote record for delegate %s", s.delegate.Hex())
	}
	if rec.Killed {
		return nil, models.Skip("vote record killed")
	}
	if len(rec.Gauges) != len(rec.Weights) {
		return nil, fmt.Errorf("vote record for %s has %d gauges but %d weights", space, len(rec.Gauges), len(rec.Weights))
	}

	allocs := make([]models.Allocation, len(rec.Gauges))
	for i, gauge := range rec.Gauges {
		allocs[i] = models.Allocation{
			Space:        space,
			GaugeAddress: gauge,
			Weight:       rec.Weights[i],
		}
	}
	return allocs, nil
}

// ConfigSource reads allocations from the static configuration file and
// only votes for spaces the registry lists
type ConfigSource struct {
	votes    []models.Allocation
	spaces   []string
	registry Registry
	active   lockers.Spaces
}

func NewConfigSource(votes []models.Allocation, registry Registry) *ConfigSource {
	spaces := make([]string, 0, len(votes))
	for _, v := range votes {
		spaces = append(spaces, v.Space)
	}
	return &ConfigSource{
		votes:    votes,
		spaces:   dedupe(spaces, true),
		registry: registry,
	}
}

// Prepare fetches the registry once for the run
func (s *ConfigSource) Prepare(ctx context.Context) error {
	active, err := s.registry.ActiveSpaces(ctx)
	if err != nil {
		return err
	}
	s.active = active
	return nil
}

func (s *ConfigSource) Spaces() []string { return s.spaces }

func (s *ConfigSource) Active(space string) bool { return s.active.Contains(space) }

func (s *ConfigSource) Allocations(ctx context.Context, space string) ([]models.Allocation, error) {
	var allocs []models.Allocation
	for _, v := range s.votes {
		if models.EqualFold(v.Space, space) {
			allocs = append(allocs, v)
		}
	}
	if len(allocs) == 0 {
		return nil, models.Skip("no configured votes")
	}
	return allocs, nil
}

// dedupe drops blank and repeated spaces, keeping first-seen order.
// Contract lookups are keyed by the exact space string, so only config
// mode lowercases.
func dedupe(spaces []string, lower bool) []string {
	seen := make(map[string]bool, len(spaces))
	out := make([]string, 0, len(spaces))
	for _, s := range spaces {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
