package rewriter

import (
	"fmt"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const versionKey = "version"

// DeclarationRewriterRepository edits a single declaration in manifest content,
// dispatching on the ecosystem and style the reader recorded.
type DeclarationRewriterRepository struct{}

// NewDeclarationRewriterRepository creates a new DeclarationRewriterRepository.
func NewDeclarationRewriterRepository() repositories.RewriterRepository {
	return &DeclarationRewriterRepository{}
}

func (r *DeclarationRewriterRepository) Rewrite(
	content []byte,
	update entities.VersionUpdate,
) ([]byte, bool, error) {
	declaration := update.Declaration
	oldText, newText := declaration.OldText(), update.NewDeclarationText

	switch {
	case declaration.Ecosystem == entities.EcosystemCargo && declaration.Style == entities.StyleInline:
		target := tomlTarget{path: cargoPath(declaration), tolerantIndex: len(declaration.SectionPath())}
		return rewriteTOMLString(content, target, oldText, newText)

	case declaration.Ecosystem == entities.EcosystemCargo && declaration.Style == entities.StyleTable:
		target := tomlTarget{
			path:          append(cargoPath(declaration), versionKey),
			tolerantIndex: len(declaration.SectionPath()),
		}
		return rewriteTOMLString(content, target, oldText, newText)

	case declaration.Ecosystem == entities.EcosystemFoundry && declaration.Style == entities.StyleInline:
		target := tomlTarget{
			path:          append(declaration.SectionPath(), entities.FoundryCompilerKey),
			tolerantIndex: -1,
		}
		return rewriteTOMLString(content, target, oldText, newText)

	case declaration.Ecosystem == entities.EcosystemNpm && declaration.Style == entities.StyleInline,
		declaration.Ecosystem == entities.EcosystemForgeStd && declaration.Style == entities.StyleReference:
		return rewriteJSONString(content, declaration.Section, declaration.Name, oldText, newText)
	}

	return content, false, fmt.Errorf(
		"%w: %s declaration of %s has style %s",
		entities.ErrNotRewritable, declaration.Ecosystem, declaration.Name, declaration.Style,
	)
}

func cargoPath(declaration entities.Declaration) []string {
	return append(declaration.SectionPath(), declaration.Name)
}
