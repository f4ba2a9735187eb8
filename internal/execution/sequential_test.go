package execution

import (
	"context"
	"os"
	"strings"
	"testing"

	"diagtest/internal/domain"
	"diagtest/internal/verify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) Result(number int, result domain.CaseResult) {
	status := "ok"
	if !result.Passed {
		status = "not ok"
	}
	r.lines = append(r.lines, status+" "+result.Case.Name)
}

func (r *recordingReporter) Skip(number int, tc *domain.TestCase, reason string) {
	r.lines = append(r.lines, "skip "+tc.Name+" "+reason)
}

func TestSequential_Execute(t *testing.T) {
	tool := fakeTool(t, strings.Replace(echoTool, "%s", "0", 1))
	runner := NewRunner(testConfig(t, tool))
	reporter := &recordingReporter{}
	executor := NewSequential(runner, verify.StrictnessLenient, reporter)

	cases := []*domain.TestCase{
		newCase("a.c section 0", ".c", []string{"//! error: bad cast in foo()"}, "bad cast"),
		newCase("a.c section 1", ".c", []string{"int ok;"}),
		newCase("a.c section 2", ".c", []string{"int y;"}, "missing diagnostic"),
		newCase("a.c section 3", ".c", []string{"//! warning: stray"}),
	}

	results, _, err := executor.Execute(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
	assert.Equal(t, verify.ReasonMissingExpected, results[2].Reason)
	assert.Equal(t, []string{"missing diagnostic"}, results[2].Mismatches)
	assert.False(t, results[3].Passed)
	assert.Equal(t, verify.ReasonUnexpectedOutput, results[3].Reason)

	assert.Equal(t, []string{
		"ok a.c section 0",
		"ok a.c section 1",
		"not ok a.c section 2",
		"not ok a.c section 3",
	}, reporter.lines)

	// Passing sources are removed, failing ones kept for inspection
	for _, r := range results {
		_, err := os.Stat(r.Invocation.TempPath)
		if r.Passed {
			assert.True(t, os.IsNotExist(err), "expected %s to be removed", r.Invocation.TempPath)
		} else {
			assert.NoError(t, err, "expected %s to be kept", r.Invocation.TempPath)
		}
	}
}

func TestSequential_Execute_FailFast(t *testing.T) {
	tool := fakeTool(t, strings.Replace(echoTool, "%s", "0", 1))
	reporter := &recordingReporter{}
	executor := NewSequential(NewRunner(testConfig(t, tool)), verify.StrictnessLenient, reporter)
	executor.SetFailFast(true)

	cases := []*domain.TestCase{
		newCase("b.c section 0", ".c", nil),
		newCase("b.c section 1", ".c", []string{"//! error: boom"}),
		newCase("b.c section 2", ".c", nil),
	}

	results, _, err := executor.Execute(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[2].Skipped)
	assert.Equal(t, SkipFailFast, results[2].Reason)
	assert.Equal(t, "skip b.c section 2 fail-fast", reporter.lines[2])
}

func TestSequential_Execute_Strict(t *testing.T) {
	tool := fakeTool(t, strings.Replace(echoTool, "%s", "1", 1))
	cases := func() []*domain.TestCase {
		return []*domain.TestCase{newCase("c.c section 0", ".c", nil)}
	}

	lenient := NewSequential(NewRunner(testConfig(t, tool)), verify.StrictnessLenient, nil)
	results, _, err := lenient.Execute(context.Background(), cases())
	require.NoError(t, err)
	assert.True(t, results[0].Passed)

	strict := NewSequential(NewRunner(testConfig(t, tool)), verify.StrictnessStrict, nil)
	results, _, err = strict.Execute(context.Background(), cases())
	require.NoError(t, err)
	assert.False(t, results[0].Passed)
	assert.Equal(t, verify.ReasonToolFailure, results[0].Reason)
}

func TestSequential_Execute_Empty(t *testing.T) {
	executor := NewSequential(NewRunner(testConfig(t, "/bin/true")), verify.StrictnessLenient, nil)
	results, duration, err := executor.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, duration)
}

func TestSequential_Execute_Repeatable(t *testing.T) {
	tool := fakeTool(t, strings.Replace(echoTool, "%s", "0", 1))
	runner := NewRunner(testConfig(t, tool))

	cases := []*domain.TestCase{
		newCase("d.c section 0", ".c", []string{"//! warning: first [-Wgnome]"}, "first"),
		newCase("d.c section 1", ".c", []string{"int z;"}, "never printed"),
		newCase("d.c section 2", ".c", []string{"//! error: stray"}),
		newCase("d.c section 3", ".c", nil),
	}

	verdicts := func() []verify.Verdict {
		executor := NewSequential(runner, verify.StrictnessLenient, nil)
		results, _, err := executor.Execute(context.Background(), cases)
		require.NoError(t, err)
		out := make([]verify.Verdict, len(results))
		for i, r := range results {
			out[i] = verify.Verdict{Passed: r.Passed, Mismatches: r.Mismatches, Reason: r.Reason}
		}
		return out
	}

	first := verdicts()
	second := verdicts()
	assert.Equal(t, first, second)
	assert.Equal(t, []bool{true, false, false, true}, []bool{first[0].Passed, first[1].Passed, first[2].Passed, first[3].Passed})
}
