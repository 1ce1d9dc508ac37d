// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package runner drives one autovoter run.

Each space is processed on its own and ends in exactly one outcome:

  - skipped: not in the registry, no proposal, window closed, no record,
    or nothing to cast
  - failed: a fetch, resolution or submission error
  - dry-run: the vote was built but not sent
  - voted: the hub accepted the vote

A failed space does not stop the ones after it unless Options.FailFast is
set. Run only returns an error when the allocation source cannot be
prepared; per-space failures are read from the Report:

	report, err := runner.New(proposals, source, votes, runner.Options{}).Run(ctx)
	if err != nil || report.Failed() {
		os.Exit(1)
	}
*/
package runner
