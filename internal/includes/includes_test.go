package includes

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const cppOutput = `ignoring nonexistent directory "/usr/local/include/x86_64-linux-gnu"
#include "..." search starts here:
#include <...> search starts here:
 /usr/include/c++/12
 /usr/local/include
 /System/Library/Frameworks (framework directory)
End of search list.
`

func TestParseSystemIncludes(t *testing.T) {
	expected := []string{
		"-isystem", "/usr/include/c++/12",
		"-isystem", "/usr/local/include",
		"-isystem", "/System/Library/Frameworks",
	}

	result := ParseSystemIncludes(cppOutput)
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %v, got %v", expected, result)
	}

	if flags := ParseSystemIncludes(""); len(flags) != 0 {
		t.Errorf("expected no flags for empty output, got %v", flags)
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestDiscoverer(t *testing.T) {
	dir := t.TempDir()
	d := &Discoverer{
		CPP:       writeScript(t, dir, "cpp", "cat >&2 <<'OUT'\n"+cppOutput+"OUT\nexit 1\n"),
		PkgConfig: writeScript(t, dir, "pkg-config", "echo '-I/usr/include/glib-2.0 -I\"/usr/lib/glib 2.0/include\"'\n"),
	}
	ctx := context.Background()

	t.Run("pkg-config flags are shell split", func(t *testing.T) {
		flags, err := d.PkgConfigFlags(ctx, []string{"glib-2.0"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := []string{"-I/usr/include/glib-2.0", "-I/usr/lib/glib 2.0/include"}
		if !reflect.DeepEqual(flags, expected) {
			t.Errorf("expected %v, got %v", expected, flags)
		}
	})

	t.Run("no packages means no pkg-config call", func(t *testing.T) {
		broken := &Discoverer{PkgConfig: filepath.Join(dir, "missing")}
		flags, err := broken.PkgConfigFlags(ctx, nil)
		if err != nil || flags != nil {
			t.Errorf("expected nil flags and error, got %v, %v", flags, err)
		}
	})

	t.Run("cpp exit status is ignored", func(t *testing.T) {
		flags, err := d.SystemIncludes(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(flags) != 6 {
			t.Errorf("expected 6 flags, got %v", flags)
		}
	})

	t.Run("discover combines both", func(t *testing.T) {
		flags, err := d.Discover(ctx, []string{"glib-2.0"}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(flags) != 8 || flags[0] != "-I/usr/include/glib-2.0" || flags[2] != "-isystem" {
			t.Errorf("unexpected flags: %v", flags)
		}
	})

	t.Run("missing cpp is an error", func(t *testing.T) {
		broken := &Discoverer{CPP: filepath.Join(dir, "missing")}
		if _, err := broken.SystemIncludes(ctx); err == nil {
			t.Error("expected error for missing cpp")
		}
	})

	t.Run("failing pkg-config is an error", func(t *testing.T) {
		broken := &Discoverer{PkgConfig: writeScript(t, dir, "bad-pkg-config", "echo 'Package foo was not found' >&2\nexit 1\n")}
		if _, err := broken.PkgConfigFlags(ctx, []string{"foo"}); err == nil {
			t.Error("expected error for failing pkg-config")
		}
	})
}
