package migration

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"diagtest/internal/domain"
	"diagtest/internal/storage"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// SchemaMigrator creates the tables used by the MySQL results storage
type SchemaMigrator struct {
	databaseManager *DatabaseManager
	statements      []string
}

// NewSchemaMigrator creates a new SchemaMigrator
func NewSchemaMigrator(dbManager *DatabaseManager) *SchemaMigrator {
	return &SchemaMigrator{
		databaseManager: dbManager,
		statements:      storage.Schema,
	}
}

// Run creates the database if needed and applies every schema statement
func (sm *SchemaMigrator) Run() error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║               Preparing Results Database                   ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	db, err := sm.databaseManager.EnsureDatabase()
	if err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}
	defer db.Close()

	bar := progressbar.NewOptions(len(sm.statements),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	startTime := time.Now()
	results := sm.apply(db, func() { _ = bar.Add(1) })
	_ = bar.Finish()

	var failed []domain.MigrationResult
	for _, result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}

	fmt.Print("\n")
	if len(failed) > 0 {
		color.Red("✗ %d schema statement(s) failed\n", len(failed))
		for _, result := range failed {
			color.Red("  %v\n", result.Error)
		}
		return fmt.Errorf("migration failed for %d statement(s)", len(failed))
	}

	color.Green("✓ Results database is ready (%d statements)\n", len(results))
	color.White("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

func (sm *SchemaMigrator) apply(db *sql.DB, step func()) []domain.MigrationResult {
	results := make([]domain.MigrationResult, 0, len(sm.statements))
	for _, stmt := range sm.statements {
		_, err := db.Exec(stmt)
		results = append(results, domain.MigrationResult{
			Statement: stmt,
			Success:   err == nil,
			Error:     err,
		})
		step()
	}
	return results
}
