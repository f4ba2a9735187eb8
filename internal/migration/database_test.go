package migration

import (
	"strings"
	"testing"

	"diagtest/internal/config"
)

func TestDatabaseManager_DSN(t *testing.T) {
	t.Run("configured dsn wins", func(t *testing.T) {
		cfg := config.New()
		cfg.ResultsDSN = "u:p@tcp(db:3306)/results"
		dsn, err := NewDatabaseManager(cfg).DSN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dsn != cfg.ResultsDSN {
			t.Errorf("expected %s, got %s", cfg.ResultsDSN, dsn)
		}
	})

	t.Run("assembled from environment", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "3307")
		t.Setenv("DB_USERNAME", "ci")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_DATABASE", "conformance")

		cfg := config.New()
		cfg.WorkDir = t.TempDir()
		dsn, err := NewDatabaseManager(cfg).DSN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, part := range []string{"ci:secret@", "tcp(db.internal:3307)", "/conformance", "parseTime=true"} {
			if !strings.Contains(dsn, part) {
				t.Errorf("expected %q in %s", part, dsn)
			}
		}
	})
}

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"diagtest", true},
		{"diagtest_results_1", true},
		{"", false},
		{strings.Repeat("a", 65), false},
		{"bad`name", false},
		{"x; DROP DATABASE y", false},
	}

	for _, tt := range tests {
		if got := isValidDatabaseName(tt.name); got != tt.valid {
			t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}
