//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DeclarationBuilder helps create test declarations with a fluent interface.
type DeclarationBuilder struct {
	*testkit.BaseBuilder
	ecosystem entities.Ecosystem
	file      string
	section   string
	name      string
	version   string
	style     entities.Style
	rawValue  string
}

// NewDeclarationBuilder creates a new declaration builder with sensible defaults.
func NewDeclarationBuilder() *DeclarationBuilder {
	builder := &DeclarationBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	builder.defaults()
	return builder
}

func (b *DeclarationBuilder) defaults() {
	b.ecosystem = entities.EcosystemNpm
	b.file = "package.json"
	b.section = "dependencies"
	b.name = "viem"
	b.version = "^2.29.4"
	b.style = entities.StyleInline
	b.rawValue = ""
}

// WithEcosystem sets the ecosystem.
func (b *DeclarationBuilder) WithEcosystem(ecosystem entities.Ecosystem) *DeclarationBuilder {
	b.ecosystem = ecosystem
	return b
}

// WithFile sets the manifest path.
func (b *DeclarationBuilder) WithFile(file string) *DeclarationBuilder {
	b.file = file
	return b
}

// WithSection sets the structural section.
func (b *DeclarationBuilder) WithSection(section string) *DeclarationBuilder {
	b.section = section
	return b
}

// WithName sets the dependency identifier.
func (b *DeclarationBuilder) WithName(name string) *DeclarationBuilder {
	b.name = name
	return b
}

// WithVersion sets the declared version text.
func (b *DeclarationBuilder) WithVersion(version string) *DeclarationBuilder {
	b.version = version
	return b
}

// WithStyle sets the declaration style.
func (b *DeclarationBuilder) WithStyle(style entities.Style) *DeclarationBuilder {
	b.style = style
	return b
}

// WithRawValue sets the full reference string.
func (b *DeclarationBuilder) WithRawValue(rawValue string) *DeclarationBuilder {
	b.rawValue = rawValue
	return b
}

// Build creates the declaration (satisfies testkit.Builder interface).
func (b *DeclarationBuilder) Build() interface{} {
	return b.BuildDeclaration()
}

// BuildDeclaration creates the declaration with a concrete return type.
func (b *DeclarationBuilder) BuildDeclaration() entities.Declaration {
	return entities.Declaration{
		Ecosystem:          b.ecosystem,
		File:               b.file,
		Section:            b.section,
		Name:               b.name,
		CurrentVersionText: b.version,
		Style:              b.style,
		RawValue:           b.rawValue,
	}
}

// BuildUpdate creates a VersionUpdate of the declaration to latest.
func (b *DeclarationBuilder) BuildUpdate(latest string) entities.VersionUpdate {
	update, _ := entities.NewVersionUpdate(b.BuildDeclaration(), latest)
	return update
}

// Reset clears the builder state, allowing it to be reused.
func (b *DeclarationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.defaults()
	return b
}

// Clone creates a deep copy of the DeclarationBuilder.
func (b *DeclarationBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
