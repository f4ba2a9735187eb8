package storage

import (
	"time"

	"diagtest/internal/config"
	"diagtest/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer).
type Storage interface {
	Save(results []domain.CaseResult, fixtures []string, duration time.Duration, strict bool) error
	Load() (*domain.RunOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// New returns the MySQL backend when a results DSN is configured and the
// JSON file backend otherwise.
func New(cfg *config.Config) (Storage, error) {
	if cfg.ResultsDSN != "" {
		return NewMySQLStorage(cfg.ResultsDSN)
	}
	return NewJSONStorage(cfg), nil
}

// BuildOutput summarises a run into its persisted form
func BuildOutput(results []domain.CaseResult, fixtures []string, duration time.Duration, strict bool) *domain.RunOutput {
	output := &domain.RunOutput{
		Meta: domain.RunMeta{
			Fixtures:        fixtures,
			TotalCases:      len(results),
			Strict:          strict,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: []domain.CaseFailure{},
	}

	for _, r := range results {
		switch {
		case r.Skipped:
			output.Meta.SkippedCases++
		case r.Passed:
			output.Meta.PassedCases++
		default:
			output.Meta.FailedCases++
			output.Details = append(output.Details, domain.NewCaseFailure(r))
		}
	}
	return output
}
