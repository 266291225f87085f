//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/commands"
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// StubApplyCommand is a stub implementation of commands.Apply. Unless Applied
// is set, every update it receives is reported as applied. ExecuteErr is
// returned together with Applied to mimic a partially applied run.
type StubApplyCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Applied          []entities.VersionUpdate
	LastUpdates      []entities.VersionUpdate
}

var _ commands.Apply = (*StubApplyCommand)(nil)

func (s *StubApplyCommand) Execute(
	_ context.Context,
	_ string,
	_ *entities.Settings,
	updates []entities.VersionUpdate,
) ([]entities.VersionUpdate, error) {
	s.ExecuteCallCount++
	s.LastUpdates = updates
	if s.ExecuteErr != nil {
		return s.Applied, s.ExecuteErr
	}
	if s.Applied != nil {
		return s.Applied, nil
	}
	return updates, nil
}
