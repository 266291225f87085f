package npm

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const manifestName = "package.json"

//nolint:gochecknoglobals // scanned in this order
var sections = []string{"dependencies", "devDependencies", "peerDependencies"}

// NpmManifestRepository reads package declarations from package.json files.
type NpmManifestRepository struct{}

// NewNpmManifestRepository creates a new NpmManifestRepository.
func NewNpmManifestRepository() repositories.ManifestRepository {
	return &NpmManifestRepository{}
}

func (r *NpmManifestRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemNpm }
func (r *NpmManifestRepository) FileName() string              { return manifestName }

// Extract returns one inline declaration per tracked package and section. The
// version text keeps its range prefix exactly as written.
func (r *NpmManifestRepository) Extract(
	path string,
	content []byte,
	tracked []string,
) ([]entities.Declaration, error) {
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", entities.ErrParseFailure, path)
	}

	var declarations []entities.Declaration
	for _, section := range sections {
		for _, name := range tracked {
			value := gjson.GetBytes(content, JSONPath(section, name))
			if value.Type != gjson.String {
				continue
			}
			declarations = append(declarations, entities.Declaration{
				Ecosystem:          entities.EcosystemNpm,
				File:               path,
				Section:            section,
				Name:               name,
				CurrentVersionText: value.String(),
				Style:              entities.StyleInline,
			})
		}
	}
	return declarations, nil
}

// JSONPath builds a gjson/sjson path from literal object keys, escaping every
// character the path syntax gives a meaning to ("@scope/pkg", "a.b", ...).
func JSONPath(keys ...string) string {
	escaped := make([]string, 0, len(keys))
	for _, key := range keys {
		var builder strings.Builder
		for _, char := range key {
			if !isPlainPathChar(char) {
				builder.WriteByte('\\')
			}
			builder.WriteRune(char)
		}
		escaped = append(escaped, builder.String())
	}
	return strings.Join(escaped, ".")
}

func isPlainPathChar(char rune) bool {
	switch {
	case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z', char >= '0' && char <= '9':
		return true
	case char == '-', char == '_', char == '/':
		return true
	}
	return false
}
