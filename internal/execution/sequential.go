package execution

import (
	"context"
	"fmt"
	"os"
	"time"

	"diagtest/internal/domain"
	"diagtest/internal/ui"
	"diagtest/internal/verify"

	"github.com/fatih/color"
)

// SkipFailFast is the skip reason of cases left out after a failure
const SkipFailFast = "fail-fast"

// Sequential runs cases one at a time in fixture order
type Sequential struct {
	runner     *Runner
	strictness verify.Strictness
	reporter   Reporter
	progress   *ui.ProgressBar
	failFast   bool
}

// NewSequential creates a new Sequential executor
func NewSequential(runner *Runner, strictness verify.Strictness, reporter Reporter) *Sequential {
	return &Sequential{
		runner:     runner,
		strictness: strictness,
		reporter:   reporter,
	}
}

// SetProgress sets the progress bar updated after every case
func (s *Sequential) SetProgress(progress *ui.ProgressBar) {
	s.progress = progress
}

// SetFailFast stops execution after the first failing case
func (s *Sequential) SetFailFast(failFast bool) {
	s.failFast = failFast
}

// Execute runs, verifies and reports every case. Temporary sources are
// removed for passing cases and kept for failing ones.
func (s *Sequential) Execute(ctx context.Context, cases []*domain.TestCase) ([]domain.CaseResult, time.Duration, error) {
	if len(cases) == 0 {
		return nil, 0, nil
	}

	startTime := time.Now()
	results := make([]domain.CaseResult, 0, len(cases))
	var passed, failed int
	stopped := false

	for i, tc := range cases {
		number := i + 1

		if stopped {
			results = append(results, domain.CaseResult{Case: tc, Skipped: true, Reason: SkipFailFast})
			if s.reporter != nil {
				s.reporter.Skip(number, tc, SkipFailFast)
			}
			continue
		}

		result, err := s.runCase(ctx, tc)
		if err != nil {
			if s.progress != nil {
				s.progress.Finish()
			}
			return results, time.Since(startTime), err
		}
		results = append(results, result)

		if result.Passed {
			passed++
		} else {
			failed++
			if s.failFast {
				stopped = true
			}
		}

		if s.reporter != nil {
			s.reporter.Result(number, result)
		}
		if s.progress != nil {
			s.progress.Update(passed, failed)
		}
	}

	if s.progress != nil {
		s.progress.Finish()
	}
	return results, time.Since(startTime), nil
}

func (s *Sequential) runCase(ctx context.Context, tc *domain.TestCase) (domain.CaseResult, error) {
	inv, err := s.runner.Run(ctx, tc)
	if err != nil {
		return domain.CaseResult{}, fmt.Errorf("run %s: %w", tc.Name, err)
	}

	verdict := verify.Classify(tc.ExpectedErrors, inv, s.strictness)
	result := domain.CaseResult{
		Case:       tc,
		Invocation: inv,
		Passed:     verdict.Passed,
		Mismatches: verdict.Mismatches,
		Reason:     verdict.Reason,
	}

	if result.Passed {
		if err := s.runner.Discard(inv); err != nil {
			color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return result, nil
}
