// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/gauge-autovoter/gauges"
	"github.com/danielhkuo/gauge-autovoter/models"
)

// ProposalFetcher returns the latest gauge vote proposal of a space, or nil
type ProposalFetcher interface {
	LatestGaugeVote(ctx context.Context, space string) (*models.Proposal, error)
}

// AllocationSource provides the spaces to poll and their allocations
type AllocationSource interface {
	Prepare(ctx context.Context) error
	Spaces() []string
	Active(space string) bool
	Allocations(ctx context.Context, space string) ([]models.Allocation, error)
}

// VoteSubmitter casts a weighted vote and returns the hub receipt
type VoteSubmitter interface {
	Vote(ctx context.Context, space, proposalID string, vote gauges.Vote) (string, error)
}

type Options struct {
	DryRun   bool
	FailFast bool
	Now      func() time.Time
	Logger   *slog.Logger
}

type Runner struct {
	proposals ProposalFetcher
	source    AllocationSource
	votes     VoteSubmitter
	opts      Options
	log       *slog.Logger
}

func New(proposals ProposalFetcher, source AllocationSource, votes VoteSubmitter, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		proposals: proposals,
		source:    source,
		votes:     votes,
		opts:      opts,
		log:       log,
	}
}

// Run processes every space once. The returned error is only set for
// run-level failures (the source could not be prepared); per-space
// failures are in the report.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if err := r.source.Prepare(ctx); err != nil {
		return Report{}, fmt.Errorf("failed to prepare allocation source: %w", err)
	}

	spaces := r.source.Spaces()
	report := Report{Outcomes: make([]models.Outcome, 0, len(spaces))}

	for i, space := range spaces {
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, remaining(spaces[i:], "not processed: "+err.Error())...)
			break
		}

		outcome := r.processSpace(ctx, space)
		r.logOutcome(outcome)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Status == models.StatusFailed && r.opts.FailFast {
			rest := remaining(spaces[i+1:], "not processed: earlier space failed")
			for _, o := range rest {
				r.logOutcome(o)
			}
			report.Outcomes = append(report.Outcomes, rest...)
			break
		}
	}

	r.log.Info("run finished",
		"spaces", len(report.Outcomes),
		"voted", report.Count(models.StatusVoted),
		"dry_run", report.Count(models.StatusDryRun),
		"skipped", report.Count(models.StatusSkipped),
		"failed", report.Count(models.StatusFailed),
	)
	return report, nil
}

// processSpace is the isolated unit of work for one space
func (r *Runner) processSpace(ctx context.Context, space string) models.Outcome {
	out := models.Outcome{Space: space}

	// registry filter runs before any proposal query
	if !r.source.Active(space) {
		return skipped(out, "space not in active lockers registry")
	}

	proposal, err := r.proposals.LatestGaugeVote(ctx, space)
	if err != nil {
		return failed(out, fmt.Errorf("failed to fetch proposal: %w", err))
	}
	if proposal == nil {
		return skipped(out, "no gauge vote proposal")
	}
	out.ProposalID = proposal.ID

	now := r.opts.Now()
	if !proposal.Open(now) {
		r.log.Debug("proposal outside voting window",
			"space", space,
			"proposal", proposal.ID,
			"start", humanize.Time(proposal.StartTime()),
			"end", humanize.Time(proposal.EndTime()),
		)
		return skipped(out, "proposal not in voting window")
	}

	allocs, err := r.source.Allocations(ctx, space)
	if err != nil {
		var skip *models.SkipError
		if errors.As(err, &skip) {
			return skipped(out, skip.Reason)
		}
		return failed(out, err)
	}

	choices := gauges.ParseChoices(proposal.Choices)
	vote, err := gauges.BuildVote(choices, allocs)
	if err != nil {
		return failed(out, err)
	}
	// an all-zero or empty vote is rejected by the hub, so don't send it
	if vote.Total() == 0 {
		return skipped(out, "no weights to cast")
	}
	out.Choices = vote

	if r.opts.DryRun {
		out.Status = models.StatusDryRun
		return out
	}

	receipt, err := r.votes.Vote(ctx, space, proposal.ID, vote)
	if err != nil {
		return failed(out, fmt.Errorf("failed to submit vote: %w", err))
	}
	out.Status = models.StatusVoted
	out.Receipt = receipt
	return out
}

func (r *Runner) logOutcome(o models.Outcome) {
	attrs := []any{"space", o.Space, "status", o.Status}
	if o.ProposalID != "" {
		attrs = append(attrs, "proposal", o.ProposalID)
	}
	if o.Choices != nil {
		attrs = append(attrs, "choice", gauges.Vote(o.Choices).String())
	}
	if o.Receipt != "" {
		attrs = append(attrs, "receipt", o.Receipt)
	}

	switch o.Status {
	case models.StatusFailed:
		r.log.Error("space failed", append(attrs, "error", o.Err)...)
	case models.StatusSkipped:
		r.log.Info("space skipped", append(attrs, "reason", o.Reason)...)
	default:
		r.log.Info("space processed", attrs...)
	}
}

func skipped(o models.Outcome, reason string) models.Outcome {
	o.Status = models.StatusSkipped
	o.Reason = reason
	return o
}

func failed(o models.Outcome, err error) models.Outcome {
	o.Status = models.StatusFailed
	o.Reason = err.Error()
	o.Err = err
	return o
}

func remaining(spaces []string, reason string) []models.Outcome {
	out := make([]models.Outcome, len(spaces))
	for i, space := range spaces {
		out[i] = skipped(models.Outcome{Space: space}, reason)
	}
	return out
}

// Report aggregates the per-space outcomes of one run
type Report struct {
	Outcomes []models.Outcome
}

func (r Report) Count(status string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any space failed
func (r Report) Failed() bool {
	return r.Count(models.StatusFailed) > 0
}

// Err joins every per-space failure, or returns nil
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Status == models.StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", o.Space, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Outcome returns the outcome for space
func (r Report) Outcome(space string) (models.Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Space == space {
			return o, true
		}
	}
	return models.Outcome{}, false
}
