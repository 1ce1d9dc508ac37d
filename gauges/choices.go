// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gauges

import (
	"strings"
	"unicode/utf8"
)

const (
	// ChoiceSeparator splits a choice label from its gauge address.
	ChoiceSeparator = " - "
	// Ellipsis ends the truncated address Snapshot displays.
	Ellipsis = "…"
	// PrefixLen is the number of address characters used as join key ("0x" + 15 hex).
	PrefixLen = 17
)

// ChoiceMap maps a lowercase gauge address prefix to a 1-based choice index.
type ChoiceMap struct {
	index map[string]int
	// prefix -> every choice index that claimed it, only when more than one did
	collisions map[string][]int
}

// ParseChoices builds the choice map for a proposal's ordered choices.
// Choices that do not look like "<label> - <address>…" are dropped.
// When two choices share a prefix the later one wins; the clash is kept
// so that Lookup callers can refuse to vote on it.
func ParseChoices(choices []string) ChoiceMap {
	m := ChoiceMap{
		index:      make(map[string]int, len(choices)),
		collisions: make(map[string][]int),
	}

	for i, choice := range choices {
		prefix, ok := choicePrefix(choice)
		if !ok {
			continue
		}

		// Snapshot numbers choices from 1 when voting
		idx := i + 1
		if prev, exists := m.index[prefix]; exists {
			if len(m.collisions[prefix]) == 0 {
				m.collisions[prefix] = []int{prev}
			}
			m.collisions[prefix] = append(m.collisions[prefix], idx)
		}
		m.index[prefix] = idx
	}

	return m
}

// choicePrefix recovers the address prefix from a single choice string.
func choicePrefix(choice string) (string, bool) {
	sep := strings.LastIndex(choice, ChoiceSeparator)
	if sep == -1 {
		return "", false
	}
	start := sep + len(ChoiceSeparator)

	if utf8.RuneCountInString(choice[start:]) < PrefixLen {
		return "", false
	}

	// An ellipsis that sits before the separator does not close the address.
	end := strings.LastIndex(choice, Ellipsis)
	if end <= start {
		return "", false
	}

	return Prefix(choice[start:end]), true
}

// Prefix returns the lowercase join key for a gauge address or address fragment.
func Prefix(address string) string {
	if utf8.RuneCountInString(address) > PrefixLen {
		address = string([]rune(address)[:PrefixLen])
	}
	return strings.ToLower(address)
}

// Lookup returns the choice index for a prefix.
func (m ChoiceMap) Lookup(prefix string) (int, bool) {
	idx, ok := m.index[prefix]
	return idx, ok
}

// Collisions returns the choice indices sharing prefix, or nil if it is unique.
func (m ChoiceMap) Collisions(prefix string) []int {
	return m.collisions[prefix]
}

// Len returns the number of distinct prefixes.
func (m ChoiceMap) Len() int {
	return len(m.index)
}
