package registry

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const defaultCacheSize = 256

// CachedRegistryRepository remembers successful lookups so that a dependency
// declared in many manifests or on many branches is fetched once per run.
type CachedRegistryRepository struct {
	next  repositories.RegistryRepository
	cache *lru.Cache[string, string]
}

// NewCachedRegistryRepository wraps next with an LRU cache of the given size.
func NewCachedRegistryRepository(
	next repositories.RegistryRepository,
	size int,
) (repositories.AuthenticatedRegistryRepository, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	return &CachedRegistryRepository{next: next, cache: cache}, nil
}

func (r *CachedRegistryRepository) Name() string { return r.next.Name() }

// Authenticate forwards the token when the wrapped registry accepts one.
func (r *CachedRegistryRepository) Authenticate(token string) {
	if authenticated, ok := r.next.(repositories.AuthenticatedRegistryRepository); ok {
		authenticated.Authenticate(token)
	}
}

// LatestVersion never caches failures, so a transient error is retried on the
// next lookup.
func (r *CachedRegistryRepository) LatestVersion(ctx context.Context, identifier string) (string, error) {
	if version, ok := r.cache.Get(identifier); ok {
		return version, nil
	}
	version, err := r.next.LatestVersion(ctx, identifier)
	if err != nil {
		return "", err
	}
	r.cache.Add(identifier, version)
	return version, nil
}
