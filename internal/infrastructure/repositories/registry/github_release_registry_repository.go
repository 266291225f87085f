package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// GitHubReleaseRegistryRepository reads the latest release tag of a GitHub repository.
// The client is built lazily and rebuilt whenever the token changes.
type GitHubReleaseRegistryRepository struct {
	baseURL *url.URL

	mu     sync.Mutex
	token  string
	client *gh.Client
}

// NewGitHubReleaseRegistryRepository creates a releases client. The token is
// optional and only raises the API rate limit; an empty baseURL selects api.github.com.
func NewGitHubReleaseRegistryRepository(token, baseURL string) (repositories.AuthenticatedRegistryRepository, error) {
	repository := &GitHubReleaseRegistryRepository{token: token}
	if baseURL != "" {
		parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GitHub API URL %q: %w", entities.ErrConfiguration, baseURL, err)
		}
		repository.baseURL = parsed
	}
	return repository, nil
}

func (r *GitHubReleaseRegistryRepository) Name() string { return "github-releases" }

// Authenticate switches to token for the following lookups.
func (r *GitHubReleaseRegistryRepository) Authenticate(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" || token == r.token {
		return
	}
	r.token = token
	r.client = nil
}

// LatestVersion expects "owner/repo" and returns the tag without its "v".
func (r *GitHubReleaseRegistryRepository) LatestVersion(ctx context.Context, identifier string) (string, error) {
	owner, repo, ok := strings.Cut(identifier, "/")
	if !ok || owner == "" || repo == "" {
		return "", fmt.Errorf("%w: %q is not an owner/repo pair", entities.ErrNotFound, identifier)
	}

	release, resp, err := r.currentClient().Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: no releases for %s", entities.ErrNotFound, identifier)
		}
		return "", fmt.Errorf("%w: failed to get latest release of %s: %w", entities.ErrTransient, identifier, err)
	}

	tag := strings.TrimPrefix(release.GetTagName(), "v")
	if tag == "" {
		return "", fmt.Errorf("%w: latest release of %s has no tag", entities.ErrNotFound, identifier)
	}
	return tag, nil
}

func (r *GitHubReleaseRegistryRepository) currentClient() *gh.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client
	}
	client := gh.NewClient(newHTTPClient())
	if r.token != "" {
		client = client.WithAuthToken(r.token)
	}
	if r.baseURL != nil {
		client.BaseURL = r.baseURL
	}
	client.UserAgent = userAgent
	r.client = client
	return client
}
