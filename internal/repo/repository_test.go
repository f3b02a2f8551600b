package repo_test

import (
	"testing"

	"github.com/hamed0406/geocheck/internal/repo"
	"github.com/hamed0406/geocheck/internal/repo/memory"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.AttemptStore = memory.New()
	var _ repo.AlertStore = memory.NewAlerts()
}
