package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// ProviderFactory builds a pull-request client for one hosting provider from an auth token.
type ProviderFactory func(token string) domainRepos.PullRequestRepository

// ProviderRegistry maps hosting provider names to pull-request client factories.
type ProviderRegistry struct {
	factories map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: make(map[string]ProviderFactory)}
}

// Register adds a factory under the given name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.factories[name] = factory
}

// Get builds the provider registered under name.
func (r *ProviderRegistry) Get(name, token string) (domainRepos.PullRequestRepository, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q", name)
	}
	return factory(token), nil
}

// ForRemote picks the provider of a repository: by its provider name when the
// working copy could tell, otherwise the first provider claiming its remote URL.
func (r *ProviderRegistry) ForRemote(repo entities.Repository, token string) (domainRepos.PullRequestRepository, error) {
	if repo.ProviderName != "" {
		return r.Get(repo.ProviderName, token)
	}
	for _, name := range r.Names() {
		provider := r.factories[name](token)
		if provider.MatchesURL(repo.RemoteURL) {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("no provider handles remote %q", repo.RemoteURL)
}

// Names returns the registered provider names in lexical order.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
