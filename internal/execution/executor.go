package execution

import (
	"context"
	"time"

	"diagtest/internal/domain"
)

// Executor executes test cases and returns results
type Executor interface {
	Execute(ctx context.Context, cases []*domain.TestCase) ([]domain.CaseResult, time.Duration, error)
}

// Reporter receives each case outcome as soon as it is known
type Reporter interface {
	Result(number int, result domain.CaseResult)
	Skip(number int, tc *domain.TestCase, reason string)
}
