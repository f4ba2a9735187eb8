package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"diagtest/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// Table names of the MySQL backend
const (
	RunsTable     = "diagtest_runs"
	FailuresTable = "diagtest_failures"
)

// Schema holds the statements that create the MySQL results tables
var Schema = []string{
	"CREATE TABLE IF NOT EXISTS `" + RunsTable + "` (" +
		"`id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY," +
		"`created_at` DATETIME NOT NULL," +
		"`total_cases` INT NOT NULL," +
		"`passed_cases` INT NOT NULL," +
		"`failed_cases` INT NOT NULL," +
		"`skipped_cases` INT NOT NULL," +
		"`strict` BOOLEAN NOT NULL," +
		"`duration_seconds` DOUBLE NOT NULL," +
		"`output` LONGTEXT NOT NULL" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `" + FailuresTable + "` (" +
		"`run_id` BIGINT UNSIGNED NOT NULL," +
		"`position` INT NOT NULL," +
		"`name` VARCHAR(1024) NOT NULL," +
		"`fixture` VARCHAR(1024) NOT NULL," +
		"`reason` VARCHAR(255) NOT NULL," +
		"`temp_path` VARCHAR(1024) NOT NULL," +
		"`resolved` BOOLEAN NOT NULL DEFAULT FALSE," +
		"PRIMARY KEY (`run_id`, `position`)," +
		"FOREIGN KEY (`run_id`) REFERENCES `" + RunsTable + "` (`id`) ON DELETE CASCADE" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

// ErrNoRuns is returned by Load when the database holds no run yet
var ErrNoRuns = errors.New("no stored runs")

// MySQLStorage stores every run in MySQL; Load returns the latest one.
type MySQLStorage struct {
	dsn string
	db  *sql.DB
}

// NewMySQLStorage validates the DSN and returns a MySQL backed Storage.
// The connection is opened on first use.
func NewMySQLStorage(dsn string) (*MySQLStorage, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &MySQLStorage{dsn: normalized}, nil
}

// NormalizeDSN parses a MySQL DSN and enables the options the backend needs
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid results DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("invalid results DSN: database name is required")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (s *MySQLStorage) conn() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	s.db = db
	return db, nil
}

// Close releases the database connection
func (s *MySQLStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Save inserts a new run with its failures
func (s *MySQLStorage) Save(results []domain.CaseResult, fixtures []string, duration time.Duration, strict bool) error {
	output := BuildOutput(results, fixtures, duration, strict)
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := output.Meta
	res, err := tx.Exec(
		"INSERT INTO `"+RunsTable+"` (created_at, total_cases, passed_cases, failed_cases, skipped_cases, strict, duration_seconds, output) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		time.Now().UTC(), meta.TotalCases, meta.PassedCases, meta.FailedCases, meta.SkippedCases, meta.Strict, meta.DurationSeconds, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read run id: %w", err)
	}

	for i, failure := range output.Details {
		_, err := tx.Exec(
			"INSERT INTO `"+FailuresTable+"` (run_id, position, name, fixture, reason, temp_path, resolved) VALUES (?, ?, ?, ?, ?, ?, ?)",
			runID, i, failure.Name, failure.Fixture, failure.Reason, failure.TempPath, failure.Resolved,
		)
		if err != nil {
			return fmt.Errorf("insert failure %s: %w", failure.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Load returns the latest stored run
func (s *MySQLStorage) Load() (*domain.RunOutput, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var data string
	err = db.QueryRow("SELECT output FROM `" + RunsTable + "` ORDER BY id DESC LIMIT 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	var output domain.RunOutput
	if err := json.Unmarshal([]byte(data), &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput rewrites the latest run, keeping resolved markers in sync
func (s *MySQLStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	db, err := s.conn()
	if err != nil {
		return err
	}

	var runID int64
	err = db.QueryRow("SELECT id FROM `" + RunsTable + "` ORDER BY id DESC LIMIT 1").Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRuns
	}
	if err != nil {
		return fmt.Errorf("query latest run: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("UPDATE `"+RunsTable+"` SET output = ? WHERE id = ?", string(data), runID); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	for i, failure := range output.Details {
		if _, err := tx.Exec("UPDATE `"+FailuresTable+"` SET resolved = ? WHERE run_id = ? AND position = ?", failure.Resolved, runID, i); err != nil {
			return fmt.Errorf("update failure %s: %w", failure.Name, err)
		}
	}
	return tx.Commit()
}
