package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome status constants
const (
	StatusVoted   = "voted"
	StatusDryRun  = "dry-run"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Run mode constants
const (
	ModeConfig  = "config"
	ModeOnchain = "onchain"
)

// GaugeVoteTitle is the literal every gauge vote proposal title contains.
const GaugeVoteTitle = "Gauge vote"

// Domain types

// Proposal is a snapshot of a Snapshot proposal fetched for one run.
// Start and End are unix seconds.
type Proposal struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Choices []string `json:"choices"`
	Start   int64    `json:"start"`
	End     int64    `json:"end"`
	State   string   `json:"state,omitempty"`
}

// Open reports whether now falls inside [Start, End].
func (p Proposal) Open(now time.Time) bool {
	ts := now.Unix()
	return p.Start <= ts && p.End >= ts
}

func (p Proposal) StartTime() time.Time { return time.Unix(p.Start, 0) }
func (p Proposal) EndTime() time.Time   { return time.Unix(p.End, 0) }

// Allocation is one delegated weight for a gauge in a space.
type Allocation struct {
	Space        string          `json:"space"`
	GaugeAddress string          `json:"gaugeAddress"`
	Weight       decimal.Decimal `json:"weight"`
}

// VoteRecord is what the voter contract stores for a delegate and space.
type VoteRecord struct {
	User    string
	Killed  bool
	Gauges  []string
	Weights []decimal.Decimal
}

// Locker is one entry of the active lockers registry.
// Only Space is used; the rest of the object is ignored.
type Locker struct {
	Space string `json:"space"`
}

// FileConfig is the static JSON configuration file.
type FileConfig struct {
	// on-chain mode
	Spaces        []string `json:"spaces"`
	VoterContract string   `json:"voterContract"`
	Multicall     string   `json:"multicall,omitempty"`

	// config mode
	Votes []Allocation `json:"votes"`
}

// Outcome is the result of processing a single space.
type Outcome struct {
	Space      string
	Status     string
	Reason     string
	ProposalID string
	Choices    map[int]uint64
	Receipt    string
	Err        error
}

// SkipError marks an expected "nothing to do here" condition for a space.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped: %s", e.Reason)
}

// Skip returns a SkipError with a formatted reason.
func Skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// EqualFold compares two identifiers (addresses, spaces) case-insensitively.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Error response

// ErrorResponse is the error body the Snapshot hub returns.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}
