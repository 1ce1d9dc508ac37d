package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/gauge-autovoter/cliparse"
	"github.com/danielhkuo/gauge-autovoter/lockers"
	"github.com/danielhkuo/gauge-autovoter/middleware"
	"github.com/danielhkuo/gauge-autovoter/models"
	"github.com/danielhkuo/gauge-autovoter/runner"
	"github.com/danielhkuo/gauge-autovoter/snapshot"
	"github.com/danielhkuo/gauge-autovoter/sources"
	"github.com/danielhkuo/gauge-autovoter/voter"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Verbose).With("run_id", uuid.NewString(), "mode", cfg.Mode)
	slog.SetDefault(log)

	// Stop between spaces on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliparse.Config, log *slog.Logger) error {
	httpClient := middleware.NewClient(cfg.Timeout)

	var source runner.AllocationSource
	switch cfg.Mode {
	case models.ModeOnchain:
		eth, err := voter.Dial(ctx, cfg.RPCURL)
		if err != nil {
			return err
		}
		defer eth.Close()

		reader := voter.NewReader(eth, cfg.VoterContract, cfg.Multicall)
		source = sources.NewOnchainSource(reader, cfg.PublicAddress, cfg.File.Spaces)
	default:
		source = sources.NewConfigSource(cfg.File.Votes, lockers.NewClient(cfg.LockersURL, httpClient))
	}

	log.Info("Starting run",
		"signer", cfg.Signer.Address().Hex(),
		"hub", cfg.HubURL,
		"spaces", len(source.Spaces()),
		"dry_run", cfg.DryRun,
	)

	r := runner.New(
		snapshot.NewProposalClient(cfg.HubURL, httpClient),
		source,
		snapshot.NewVoteClient(cfg.HubURL, httpClient, cfg.Signer),
		runner.Options{
			DryRun:   cfg.DryRun,
			FailFast: cfg.FailFast,
			Logger:   log,
		},
	)

	report, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if report.Failed() {
		return report.Err()
	}
	if err := ctx.Err(); err != nil {
		return errors.New("run interrupted")
	}
	return nil
}

// newLogger writes text to a terminal and JSON otherwise (cron, containers)
func newLogger(verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
