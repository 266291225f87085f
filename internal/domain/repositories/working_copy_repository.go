package repositories

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// WorkingCopyRepository drives the local git checkout the scan runs against.
type WorkingCopyRepository interface {
	// Checkout switches to branch and hard-resets it to its origin counterpart.
	Checkout(ctx context.Context, dir, branch, token string) error

	// CurrentBranch returns the short name of the checked-out branch.
	CurrentBranch(ctx context.Context, dir string) (string, error)

	// CreateBranch creates name from HEAD and checks it out, keeping changes.
	CreateBranch(ctx context.Context, dir, name string) error

	// HasChanges reports whether the worktree differs from HEAD.
	HasChanges(ctx context.Context, dir string) (bool, error)

	// CommitAll stages every change and commits it.
	CommitAll(ctx context.Context, dir, message string) error

	// Push publishes branch to origin.
	Push(ctx context.Context, dir, branch, token string) error

	// Remote describes the hosted repository behind origin.
	Remote(ctx context.Context, dir string) (entities.Repository, error)
}
