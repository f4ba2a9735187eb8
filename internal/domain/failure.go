package domain

// CaseFailure represents a failed case, kept for later inspection
type CaseFailure struct {
	Name       string   `json:"name"`
	Fixture    string   `json:"fixture"`
	Template   string   `json:"template"`
	TempPath   string   `json:"temp_path"` // Retained generated source
	Command    []string `json:"command"`
	ExitCode   int      `json:"exit_code"`
	Reason     string   `json:"reason"`
	Expected   []string `json:"expected"`
	Actual     []string `json:"actual"`
	Mismatches []string `json:"mismatches,omitempty"`
	Resolved   bool     `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// NewCaseFailure builds the persisted form of a failed result
func NewCaseFailure(r CaseResult) CaseFailure {
	return CaseFailure{
		Name:       r.Case.Name,
		Fixture:    r.Case.FixturePath,
		Template:   r.Case.TemplateName,
		TempPath:   r.Invocation.TempPath,
		Command:    r.Invocation.Args,
		ExitCode:   r.Invocation.ExitCode,
		Reason:     r.Reason,
		Expected:   r.Case.ExpectedErrors,
		Actual:     r.Invocation.Lines,
		Mismatches: r.Mismatches,
	}
}
