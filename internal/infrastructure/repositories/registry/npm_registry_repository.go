package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const npmBaseURL = "https://registry.npmjs.org"

// NpmRegistryRepository looks packages up on the npm registry.
type NpmRegistryRepository struct {
	baseURL string
	client  *http.Client
}

// NewNpmRegistryRepository creates an npm registry client; an empty baseURL
// selects the public registry.
func NewNpmRegistryRepository(baseURL string) repositories.RegistryRepository {
	if baseURL == "" {
		baseURL = npmBaseURL
	}
	return &NpmRegistryRepository{baseURL: strings.TrimSuffix(baseURL, "/"), client: newHTTPClient()}
}

func (r *NpmRegistryRepository) Name() string { return "npm" }

// LatestVersion reads the "latest" dist-tag. Scoped names keep their "@" and
// have the slash encoded, as the registry expects.
func (r *NpmRegistryRepository) LatestVersion(ctx context.Context, identifier string) (string, error) {
	var body struct {
		Version string `json:"version"`
	}
	endpoint := fmt.Sprintf("%s/%s/latest", r.baseURL, strings.ReplaceAll(identifier, "/", "%2f"))
	if err := fetchJSON(ctx, r.client, endpoint, &body); err != nil {
		return "", err
	}
	if body.Version == "" {
		return "", fmt.Errorf("%w: npm has no latest version for %s", entities.ErrNotFound, identifier)
	}
	return body.Version, nil
}
