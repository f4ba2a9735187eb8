package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"diagtest/internal/config"
	"diagtest/internal/domain"
	"diagtest/internal/verify"
)

// waitDelay bounds how long Run waits for the tool's output pipes after the
// tool exits or is killed
const waitDelay = 2 * time.Second

// analyzeFlags put the tool in analysis mode
var analyzeFlags = []string{"-cc1", "-analyze", "-Wno-visibility"}

// Runner compiles a single test case with the analysis tool
type Runner struct {
	config   *config.Config
	includes []string
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// SetIncludes sets the include flags passed before the source file
func (r *Runner) SetIncludes(flags []string) {
	r.includes = flags
}

// LanguageOptions selects the language dialect from the fixture extension
func LanguageOptions(ext string) []string {
	switch ext {
	case ".c":
		return []string{"-std=c89"}
	case ".cpp":
		return []string{"-xc++"}
	default:
		return nil
	}
}

// Command returns the argument vector used to analyze path
func (r *Runner) Command(path, ext string) []string {
	args := []string{r.config.GetToolPath()}
	args = append(args, analyzeFlags...)
	args = append(args, LanguageOptions(ext)...)
	args = append(args, r.config.ExtraArgs...)
	args = append(args, r.includes...)
	return append(args, path)
}

// Environment returns the parent environment plus the plugin contract
func (r *Runner) Environment() []string {
	env := os.Environ()
	env = append(env,
		fmt.Sprintf("%s=%s", r.config.PluginEnvVar, r.config.GetPluginPath()),
		fmt.Sprintf("%s=%s", r.config.OptionsEnvVar, r.config.PluginOptions),
	)
	if r.config.TargetCC != "" {
		env = append(env, fmt.Sprintf("%s=%s", r.config.CCEnvVar, r.config.TargetCC))
	}
	return env
}

// Run writes the case source to a temporary file and analyzes it. The exit
// status is recorded, never returned as an error; only failing to produce
// the temporary file is.
func (r *Runner) Run(ctx context.Context, tc *domain.TestCase) (domain.Invocation, error) {
	source, err := tc.Source()
	if err != nil {
		return domain.Invocation{}, fmt.Errorf("%s: %w", tc.Name, err)
	}

	path, err := writeTemp(r.config.TempDir, tc.Extension, source)
	if err != nil {
		return domain.Invocation{}, fmt.Errorf("%s: %w", tc.Name, err)
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	args := r.Command(path, tc.Extension)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = r.Environment()
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	start := time.Now()
	runErr := cmd.Run()

	inv := domain.Invocation{
		Args:     args,
		TempPath: path,
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	inv.Lines = verify.SplitLines(inv.Stderr)

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		inv.ExitCode = 0
	case errors.As(runErr, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	case errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		// The tool exited but a child kept the output pipe open
		inv.ExitCode = cmd.ProcessState.ExitCode()
	default:
		inv.ExitCode = -1
		inv.LaunchErr = runErr.Error()
	}
	return inv, nil
}

// Discard removes the generated source of a passing case
func (r *Runner) Discard(inv domain.Invocation) error {
	if inv.TempPath == "" {
		return nil
	}
	if err := os.Remove(inv.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", inv.TempPath, err)
	}
	return nil
}

func writeTemp(dir, ext, content string) (string, error) {
	tmpFile, err := os.CreateTemp(dir, "diagtest-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpFile.Name(), nil
}
