package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const solcBaseURL = "https://binaries.soliditylang.org"

// SolcRegistryRepository reads the latest Solidity compiler release.
type SolcRegistryRepository struct {
	baseURL string
	client  *http.Client
}

// NewSolcRegistryRepository creates a solc-bin client; an empty baseURL
// selects the public mirror.
func NewSolcRegistryRepository(baseURL string) repositories.RegistryRepository {
	if baseURL == "" {
		baseURL = solcBaseURL
	}
	return &SolcRegistryRepository{baseURL: strings.TrimSuffix(baseURL, "/"), client: newHTTPClient()}
}

func (r *SolcRegistryRepository) Name() string { return "solc-bin" }

// LatestVersion ignores the identifier: there is only one compiler.
func (r *SolcRegistryRepository) LatestVersion(ctx context.Context, _ string) (string, error) {
	var body struct {
		LatestRelease string `json:"latestRelease"`
	}
	if err := fetchJSON(ctx, r.client, r.baseURL+"/bin/list.json", &body); err != nil {
		return "", err
	}
	if body.LatestRelease == "" {
		return "", fmt.Errorf("%w: solc-bin list has no latest release", entities.ErrNotFound)
	}
	return body.LatestRelease, nil
}
