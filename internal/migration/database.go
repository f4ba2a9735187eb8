package migration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diagtest/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// DatabaseManager manages the results database
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// DSN returns the configured results DSN, or one assembled from the DB_*
// variables of the environment and the project's .env file.
func (dm *DatabaseManager) DSN() (string, error) {
	if dm.config.ResultsDSN != "" {
		return dm.config.ResultsDSN, nil
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(dm.config.WorkDir, config.DefaultEnvFile))

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", envOr("DB_HOST", "127.0.0.1"), envOr("DB_PORT", "3306"))
	cfg.User = envOr("DB_USERNAME", "root")
	cfg.Passwd = os.Getenv("DB_PASSWORD")
	cfg.DBName = envOr("DB_DATABASE", "diagtest")
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// EnsureDatabase creates the results database if it doesn't exist and
// returns a connection to it.
func (dm *DatabaseManager) EnsureDatabase() (*sql.DB, error) {
	dsn, err := dm.DSN()
	if err != nil {
		return nil, err
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid results DSN: %w", err)
	}
	dbName := cfg.DBName
	if !isValidDatabaseName(dbName) {
		return nil, fmt.Errorf("invalid database name: %q", dbName)
	}

	// Connect to MySQL server (without specifying database)
	server := cfg.Clone()
	server.DBName = ""
	db, err := sql.Open("mysql", server.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", dbName, err)
	}

	results, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}
	if err := results.Ping(); err != nil {
		_ = results.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}
	return results, nil
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalidChars := []string{"`", "'", "\"", ";", "--", "/*", "*/", "\\"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return false
		}
	}
	return true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
