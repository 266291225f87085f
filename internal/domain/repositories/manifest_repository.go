package repositories

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// ManifestRepository reads the tracked declarations of one manifest kind.
type ManifestRepository interface {
	// Ecosystem returns the ecosystem the manifest belongs to.
	Ecosystem() entities.Ecosystem

	// FileName is the base name of the manifest (e.g. "Cargo.toml").
	FileName() string

	// Extract returns the declarations of the tracked identifiers found in the
	// manifest content, in section order. Malformed content wraps
	// entities.ErrParseFailure.
	Extract(path string, content []byte, tracked []string) ([]entities.Declaration, error)
}

// ReferenceResolverRepository finds how a project pins forge-std.
type ReferenceResolverRepository interface {
	// Resolve walks the configured sources in order and returns the first
	// declaration found, or nil when the project does not use forge-std.
	Resolve(ctx context.Context, root string, settings *entities.Settings) (*entities.Declaration, error)
}

// RewriterRepository edits one declaration inside manifest content.
type RewriterRepository interface {
	// Rewrite returns the new content and whether anything changed. The old
	// text no longer being present is not an error: changed is false.
	Rewrite(content []byte, update entities.VersionUpdate) ([]byte, bool, error)
}
