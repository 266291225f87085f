//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// SpyPullRequestRepository implements repositories.PullRequestRepository and records calls.
type SpyPullRequestRepository struct {
	ProviderName string
	Token        string
	PullRequest  *entities.PullRequest
	CreateErr    error

	CreateCalls []CreatePullRequestCall
}

// CreatePullRequestCall records a single invocation of CreatePullRequest.
type CreatePullRequestCall struct {
	Repo  entities.Repository
	Input entities.PullRequestInput
}

var _ repositories.PullRequestRepository = (*SpyPullRequestRepository)(nil)

// Factory records the token and returns the spy, matching a provider factory signature.
func (s *SpyPullRequestRepository) Factory(token string) repositories.PullRequestRepository {
	s.Token = token
	return s
}

func (s *SpyPullRequestRepository) Name() string { return s.ProviderName }

func (s *SpyPullRequestRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, s.ProviderName)
}

func (s *SpyPullRequestRepository) CreatePullRequest(
	_ context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	s.CreateCalls = append(s.CreateCalls, CreatePullRequestCall{Repo: repo, Input: input})
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	return s.PullRequest, nil
}

// DummyPullRequestRepository is a no-op implementation of repositories.PullRequestRepository.
type DummyPullRequestRepository struct{}

var _ repositories.PullRequestRepository = (*DummyPullRequestRepository)(nil)

func (d *DummyPullRequestRepository) Name() string             { return "dummy" }
func (d *DummyPullRequestRepository) MatchesURL(_ string) bool { return false }

func (d *DummyPullRequestRepository) CreatePullRequest(
	_ context.Context,
	_ entities.Repository,
	_ entities.PullRequestInput,
) (*entities.PullRequest, error) {
	return &entities.PullRequest{}, nil
}
