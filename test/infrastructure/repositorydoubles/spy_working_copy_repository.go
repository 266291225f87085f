//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// SpyWorkingCopyRepository implements repositories.WorkingCopyRepository and records calls.
type SpyWorkingCopyRepository struct {
	// --- configured results ---
	CheckoutErrs map[string]error
	Branch       string
	Changes      bool
	CommitErr    error
	PushErr      error
	RemoteRepo   entities.Repository
	RemoteErr    error

	// --- recorded calls ---
	CheckedOut      []string
	CreatedBranches []string
	Commits         []string
	Pushed          []string
	PushTokens      []string
}

var _ repositories.WorkingCopyRepository = (*SpyWorkingCopyRepository)(nil)

func (s *SpyWorkingCopyRepository) Checkout(_ context.Context, _, branch, _ string) error {
	s.CheckedOut = append(s.CheckedOut, branch)
	return s.CheckoutErrs[branch]
}

func (s *SpyWorkingCopyRepository) CurrentBranch(_ context.Context, _ string) (string, error) {
	return s.Branch, nil
}

func (s *SpyWorkingCopyRepository) CreateBranch(_ context.Context, _, name string) error {
	s.CreatedBranches = append(s.CreatedBranches, name)
	return nil
}

func (s *SpyWorkingCopyRepository) HasChanges(_ context.Context, _ string) (bool, error) {
	return s.Changes, nil
}

func (s *SpyWorkingCopyRepository) CommitAll(_ context.Context, _, message string) error {
	s.Commits = append(s.Commits, message)
	return s.CommitErr
}

func (s *SpyWorkingCopyRepository) Push(_ context.Context, _, branch, token string) error {
	s.Pushed = append(s.Pushed, branch)
	s.PushTokens = append(s.PushTokens, token)
	return s.PushErr
}

func (s *SpyWorkingCopyRepository) Remote(_ context.Context, _ string) (entities.Repository, error) {
	return s.RemoteRepo, s.RemoteErr
}
