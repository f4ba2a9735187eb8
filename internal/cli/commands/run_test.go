package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"diagtest/internal/config"
	"diagtest/internal/discovery"
	"diagtest/internal/domain"
	"diagtest/internal/includes"
	"diagtest/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSource = `/* Template: generic */
/*
 * No error
 */
int a;
/*
 * bad cast
 */
//! warning: bad cast here
/*
 * missing thing
 */
int b;
`

func setupProject(t *testing.T) (*config.Config, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	dir := t.TempDir()
	write := func(name, content string, mode os.FileMode) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), mode))
	}
	write("tartan", "#!/bin/sh\nfor last; do :; done\nsed -n 's|^//! ||p' \"$last\" >&2\n", 0755)
	write("generic.head.c", "#include <stdio.h>", 0644)
	write("generic.tail.c", "", 0644)
	write("casts.c", fixtureSource, 0644)

	cfg := config.New()
	cfg.WorkDir = dir
	cfg.ToolPath = filepath.Join(dir, "tartan")
	cfg.SystemIncludes = false
	cfg.PkgConfigPackages = nil
	cfg.TempDir = t.TempDir()
	return cfg, dir
}

func newTestRunCommand(cfg *config.Config) (*RunCommand, *bytes.Buffer) {
	rc := NewRunCommand(cfg, discovery.NewScanner(discovery.DefaultExtensions), discovery.NewFilter(), includes.NewDiscoverer())
	var stdout bytes.Buffer
	rc.stdout = &stdout
	rc.stderr = &bytes.Buffer{}
	return rc, &stdout
}

func cobraCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunCommand_Execute(t *testing.T) {
	cfg, dir := setupProject(t)
	rc, stdout := newTestRunCommand(cfg)

	err := rc.Execute(cobraCmd(), []string{filepath.Join(dir, "casts.c")})
	require.ErrorIs(t, err, ErrCasesFailed)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "1..3", lines[0])

	out := stdout.String()
	assert.Contains(t, out, "casts.c section 0\n")
	assert.Contains(t, out, "\nok 1 ")
	assert.Contains(t, out, "\nok 2 ")
	assert.Contains(t, out, "# Non-matching line: missing thing\n")
	assert.Contains(t, out, "# Error: expected compiler error was not seen.\n")
	assert.Contains(t, out, "\nnot ok 3 ")

	// Results are persisted for the failures viewer
	output, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, output.Meta.TotalCases)
	assert.Equal(t, 2, output.Meta.PassedCases)
	require.Len(t, output.Details, 1)
	assert.Equal(t, []string{"missing thing"}, output.Details[0].Mismatches)
	assert.FileExists(t, output.Details[0].TempPath)
}

func TestRunCommand_Execute_Filter(t *testing.T) {
	cfg, dir := setupProject(t)
	cfg.Flags.NameFilter = "*section 1"
	rc, stdout := newTestRunCommand(cfg)

	require.NoError(t, rc.Execute(cobraCmd(), []string{dir}))
	assert.True(t, strings.HasPrefix(stdout.String(), "1..1\n"))
	assert.Contains(t, stdout.String(), "ok 1 ")
	assert.NotContains(t, stdout.String(), "not ok")
}

func TestRunCommand_Execute_FailFast(t *testing.T) {
	cfg, dir := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casts.c"), []byte(`/* Template: generic */
/*
 * expected but absent
 */
/*
 * No error
 */
`), 0644))
	cfg.Flags.FailFast = true
	rc, stdout := newTestRunCommand(cfg)

	err := rc.Execute(cobraCmd(), []string{filepath.Join(dir, "casts.c")})
	require.ErrorIs(t, err, ErrCasesFailed)
	assert.Contains(t, stdout.String(), "not ok 1 ")
	assert.Contains(t, stdout.String(), "section 1 # SKIP fail-fast\n")
}

func TestRunCommand_Execute_MissingTemplate(t *testing.T) {
	cfg, dir := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.c"), []byte("/* Template: nowhere */\n/*\nint x;\n"), 0644))
	rc, stdout := newTestRunCommand(cfg)

	err := rc.Execute(cobraCmd(), []string{filepath.Join(dir, "casts.c"), filepath.Join(dir, "other.c")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCasesFailed)
	assert.Empty(t, stdout.String(), "nothing may be reported before every fixture parsed")
}

func TestRunCommand_Execute_NoCases(t *testing.T) {
	cfg, dir := setupProject(t)
	cfg.Flags.NameFilter = "*does-not-exist*"
	rc, stdout := newTestRunCommand(cfg)

	require.NoError(t, rc.Execute(cobraCmd(), []string{dir}))
	assert.Equal(t, "1..0\n", stdout.String())
}

// sharedStorage stands in for a results database that another run wrote
// to after this one: Load always returns a clean run.
type sharedStorage struct {
	saved int
}

func (s *sharedStorage) Save(results []domain.CaseResult, fixtures []string, duration time.Duration, strict bool) error {
	s.saved++
	return nil
}

func (s *sharedStorage) Load() (*domain.RunOutput, error) {
	return &domain.RunOutput{Meta: domain.RunMeta{TotalCases: 5, PassedCases: 5}}, nil
}

func (s *sharedStorage) SaveOutput(output *domain.RunOutput) error {
	return nil
}

func TestRunCommand_Execute_OutcomeFromOwnResults(t *testing.T) {
	cfg, dir := setupProject(t)
	rc, _ := newTestRunCommand(cfg)
	st := &sharedStorage{}
	rc.newStorage = func(*config.Config) (storage.Storage, error) { return st, nil }

	err := rc.Execute(cobraCmd(), []string{filepath.Join(dir, "casts.c")})
	require.ErrorIs(t, err, ErrCasesFailed)
	assert.Contains(t, err.Error(), "1 of 3 case(s) failed")
	assert.Equal(t, 1, st.saved)
}
