package cargo

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const (
	manifestName = "Cargo.toml"
	versionKey   = "version"
)

//nolint:gochecknoglobals // scanned in this order
var sections = []string{
	"dependencies",
	"dev-dependencies",
	"build-dependencies",
	"workspace.dependencies",
}

// CargoManifestRepository reads crate declarations from Cargo.toml files.
type CargoManifestRepository struct{}

// NewCargoManifestRepository creates a new CargoManifestRepository.
func NewCargoManifestRepository() repositories.ManifestRepository {
	return &CargoManifestRepository{}
}

func (r *CargoManifestRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemCargo }
func (r *CargoManifestRepository) FileName() string              { return manifestName }

// Extract returns one declaration per tracked crate and section. A plain string
// value is an inline declaration, a table carrying a "version" string is a
// table declaration; git and path dependencies without a version are ignored.
func (r *CargoManifestRepository) Extract(
	path string,
	content []byte,
	tracked []string,
) ([]entities.Declaration, error) {
	var document map[string]any
	if err := toml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrParseFailure, path, err)
	}

	var declarations []entities.Declaration
	for _, section := range sections {
		dependencies, ok := lookupTable(document, strings.Split(section, "."))
		if !ok {
			continue
		}

		for _, name := range tracked {
			value, found := lookupCrate(dependencies, name)
			if !found {
				continue
			}

			declaration := entities.Declaration{
				Ecosystem: entities.EcosystemCargo,
				File:      path,
				Section:   section,
				Name:      name,
			}
			switch typed := value.(type) {
			case string:
				declaration.CurrentVersionText = typed
				declaration.Style = entities.StyleInline
			case map[string]any:
				version, isString := typed[versionKey].(string)
				if !isString {
					continue
				}
				declaration.CurrentVersionText = version
				declaration.Style = entities.StyleTable
			default:
				continue
			}
			declarations = append(declarations, declaration)
		}
	}
	return declarations, nil
}

func lookupTable(document map[string]any, path []string) (map[string]any, bool) {
	current := document
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// lookupCrate finds a crate by name, accepting "-" and "_" as the same character
// the way Cargo does. An exact match wins over a normalized one.
func lookupCrate(dependencies map[string]any, name string) (any, bool) {
	if value, ok := dependencies[name]; ok {
		return value, true
	}
	normalized := NormalizeName(name)
	for key, value := range dependencies {
		if NormalizeName(key) == normalized {
			return value, true
		}
	}
	return nil, false
}

// NormalizeName folds the crate name separators Cargo treats as equivalent.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
