package domain

import "time"

// Invocation is the structured outcome of running the analysis tool once
type Invocation struct {
	Args      []string      // Full argument vector, tool first
	TempPath  string        // Generated source file
	ExitCode  int           // -1 if the process never ran to completion
	Stderr    string        // Raw diagnostic stream
	Lines     []string      // Stderr split into lines
	LaunchErr string        // Set when the process could not be started
	Duration  time.Duration // Time taken by the tool
}

// Launched reports whether the tool process was started
func (inv Invocation) Launched() bool {
	return inv.LaunchErr == ""
}

// CaseResult joins a case with the outcome of running and verifying it
type CaseResult struct {
	Case       *TestCase
	Invocation Invocation
	Passed     bool
	Skipped    bool
	Mismatches []string
	Reason     string
}

// RunMeta contains metadata about a run
type RunMeta struct {
	Fixtures        []string `json:"fixtures"`
	TotalCases      int      `json:"total_cases"`
	PassedCases     int      `json:"passed_cases"`
	FailedCases     int      `json:"failed_cases"`
	SkippedCases    int      `json:"skipped_cases"`
	Strict          bool     `json:"strict"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Timestamp       string   `json:"timestamp"`
}

// RunOutput is the complete persisted form of a run
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []CaseFailure `json:"details"`
}
