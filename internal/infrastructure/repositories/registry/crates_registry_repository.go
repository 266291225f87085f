package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const cratesBaseURL = "https://crates.io"

// CratesRegistryRepository looks crates up on crates.io.
type CratesRegistryRepository struct {
	baseURL string
	client  *http.Client
}

// NewCratesRegistryRepository creates a crates.io client; an empty baseURL
// selects the public registry.
func NewCratesRegistryRepository(baseURL string) repositories.RegistryRepository {
	if baseURL == "" {
		baseURL = cratesBaseURL
	}
	return &CratesRegistryRepository{baseURL: strings.TrimSuffix(baseURL, "/"), client: newHTTPClient()}
}

func (r *CratesRegistryRepository) Name() string { return "crates.io" }

func (r *CratesRegistryRepository) LatestVersion(ctx context.Context, identifier string) (string, error) {
	var body struct {
		Crate struct {
			NewestVersion string `json:"newest_version"`
		} `json:"crate"`
	}
	endpoint := fmt.Sprintf("%s/api/v1/crates/%s", r.baseURL, url.PathEscape(identifier))
	if err := fetchJSON(ctx, r.client, endpoint, &body); err != nil {
		return "", err
	}
	if body.Crate.NewestVersion == "" {
		return "", fmt.Errorf("%w: crates.io has no version for %s", entities.ErrNotFound, identifier)
	}
	return body.Crate.NewestVersion, nil
}
