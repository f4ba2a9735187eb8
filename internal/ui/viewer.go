package ui

import "diagtest/internal/domain"

// Viewer displays stored failures in an interactive TUI
type Viewer interface {
	View(results *domain.RunOutput) error
}
