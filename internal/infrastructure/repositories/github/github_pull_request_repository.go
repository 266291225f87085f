package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const providerName = "github"

// GitHubPullRequestRepository implements repositories.PullRequestRepository for GitHub.
type GitHubPullRequestRepository struct {
	client *gh.Client
}

// NewGitHubPullRequestRepository creates a new GitHub provider with the given token.
func NewGitHubPullRequestRepository(token string) repositories.PullRequestRepository {
	return &GitHubPullRequestRepository{client: gh.NewClient(nil).WithAuthToken(token)}
}

func newWithBaseURL(token, baseURL string) (*GitHubPullRequestRepository, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
	}
	client := gh.NewClient(nil).WithAuthToken(token)
	client.BaseURL = parsed
	return &GitHubPullRequestRepository{client: client}, nil
}

func (p *GitHubPullRequestRepository) Name() string { return providerName }

func (p *GitHubPullRequestRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "github.com")
}

func (p *GitHubPullRequestRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, repo.Organization, repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}
