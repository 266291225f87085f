package repositories

import "context"

// RegistryRepository answers "what is the latest released version of X?" for
// one upstream registry. Failures wrap entities.ErrNotFound or
// entities.ErrTransient so callers can tell them apart.
type RegistryRepository interface {
	// Name returns the registry identifier (e.g. "crates.io", "npm").
	Name() string

	// LatestVersion returns the newest released version of the identifier.
	LatestVersion(ctx context.Context, identifier string) (string, error)
}

// AuthenticatedRegistryRepository is a registry whose requests can carry the
// token of the current run.
type AuthenticatedRegistryRepository interface {
	RegistryRepository

	// Authenticate makes later lookups use token. An empty token keeps the
	// current credentials.
	Authenticate(token string)
}
