package repositories

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// PullRequestRepository opens pull requests on a git hosting provider.
type PullRequestRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// MatchesURL returns true if the remote URL belongs to this provider.
	MatchesURL(rawURL string) bool

	CreatePullRequest(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)
}
