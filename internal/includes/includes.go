package includes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
)

// Discoverer finds the include flags every case is compiled with
type Discoverer struct {
	CPP       string
	PkgConfig string
}

// NewDiscoverer creates a Discoverer using cpp and pkg-config from PATH
func NewDiscoverer() *Discoverer {
	return &Discoverer{CPP: "cpp", PkgConfig: "pkg-config"}
}

// SystemIncludes asks the preprocessor for its search list and returns it
// as -isystem flags.
func (d *Discoverer) SystemIncludes(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, d.CPP, "-xc++", "-Wp,-v")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// cpp exits non-zero on empty input with some toolchains; the search
	// list is still printed, so only a failed launch is an error.
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, fmt.Errorf("run %s: %w", d.CPP, err)
		}
	}
	return ParseSystemIncludes(stderr.String()), nil
}

// ParseSystemIncludes extracts the search directories from the verbose
// preprocessor output. Directory lines are the ones indented by a space.
func ParseSystemIncludes(output string) []string {
	var flags []string
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, " ") {
			continue
		}
		path := strings.TrimSpace(strings.ReplaceAll(line, "(framework directory)", ""))
		if path == "" {
			continue
		}
		flags = append(flags, "-isystem", path)
	}
	return flags
}

// PkgConfigFlags returns the compiler flags of the given pkg-config packages
func (d *Discoverer) PkgConfigFlags(ctx context.Context, packages []string) ([]string, error) {
	if len(packages) == 0 {
		return nil, nil
	}

	args := append([]string{"--cflags"}, packages...)
	cmd := exec.CommandContext(ctx, d.PkgConfig, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s --cflags %s: %w: %s", d.PkgConfig, strings.Join(packages, " "), err, strings.TrimSpace(stderr.String()))
	}

	flags, err := shlex.Split(string(out), true)
	if err != nil {
		return nil, fmt.Errorf("parse pkg-config output: %w", err)
	}
	return flags, nil
}

// Discover returns pkg-config flags followed by system include flags
func (d *Discoverer) Discover(ctx context.Context, packages []string, system bool) ([]string, error) {
	flags, err := d.PkgConfigFlags(ctx, packages)
	if err != nil {
		return nil, err
	}
	if system {
		sys, err := d.SystemIncludes(ctx)
		if err != nil {
			return nil, err
		}
		flags = append(flags, sys...)
	}
	return flags, nil
}
