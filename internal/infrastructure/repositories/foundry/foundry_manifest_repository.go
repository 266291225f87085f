package foundry

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const (
	manifestName   = "foundry.toml"
	defaultProfile = "profile.default"
)

// FoundryManifestRepository reads the pinned compiler version from foundry.toml.
type FoundryManifestRepository struct{}

// NewFoundryManifestRepository creates a new FoundryManifestRepository.
func NewFoundryManifestRepository() repositories.ManifestRepository {
	return &FoundryManifestRepository{}
}

func (r *FoundryManifestRepository) Ecosystem() entities.Ecosystem {
	return entities.EcosystemFoundry
}

func (r *FoundryManifestRepository) FileName() string { return manifestName }

// Extract looks for "solc" in [profile.default], or at the top level when the
// file has no such table. The tracked list is ignored: only the compiler is read.
func (r *FoundryManifestRepository) Extract(
	path string,
	content []byte,
	_ []string,
) ([]entities.Declaration, error) {
	var document map[string]any
	if err := toml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrParseFailure, path, err)
	}

	scope, section := document, ""
	if profiles, ok := document["profile"].(map[string]any); ok {
		if defaults, found := profiles["default"].(map[string]any); found {
			scope, section = defaults, defaultProfile
		}
	}

	version, ok := scope[entities.FoundryCompilerKey].(string)
	if !ok || version == "" {
		return nil, nil
	}

	return []entities.Declaration{{
		Ecosystem:          entities.EcosystemFoundry,
		File:               path,
		Section:            section,
		Name:               entities.FoundryCompilerKey,
		CurrentVersionText: version,
		Style:              entities.StyleInline,
	}}, nil
}
