//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/commands"
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/rewriter"
	"github.com/rios0rios0/arbupdate/test/domain/entitybuilders"
	"github.com/rios0rios0/arbupdate/test/infrastructure/repositorydoubles"
)

const unreleasedChangelog = `# Changelog

## [Unreleased]

## [1.0.0] - 2026-01-01

### Added

- first release
`

func newApplyCommand(fileSystem *repositorydoubles.InMemoryFileSystemRepository) *commands.ApplyCommand {
	log, _ := test.NewNullLogger()
	return commands.NewApplyCommand(fileSystem, rewriter.NewDeclarationRewriterRepository(), log)
}

func cargoUpdate(section, version, latest string, style entities.Style) entities.VersionUpdate {
	return entitybuilders.NewDeclarationBuilder().
		WithEcosystem(entities.EcosystemCargo).
		WithFile("/repo/Cargo.toml").
		WithSection(section).
		WithName("stylus-sdk").
		WithVersion(version).
		WithStyle(style).
		BuildUpdate(latest)
}

func stylusUpdateIn(file string) entities.VersionUpdate {
	return entitybuilders.NewDeclarationBuilder().
		WithEcosystem(entities.EcosystemCargo).
		WithFile(file).
		WithSection("dependencies").
		WithName("stylus-sdk").
		WithVersion("0.9.0").
		WithStyle(entities.StyleInline).
		BuildUpdate("0.10.3")
}

func TestApplyCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should apply every update of a file with a single write", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/Cargo.toml": stylusCargo,
		})
		updates := []entities.VersionUpdate{
			cargoUpdate("dependencies", "0.9.0", "0.10.3", entities.StyleInline),
			cargoUpdate("dev-dependencies", "0.9.0", "0.10.3", entities.StyleTable),
		}

		// when
		applied, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), updates)

		// then
		require.NoError(t, err)
		assert.Len(t, applied, 2)
		assert.Equal(t, []string{"/repo/Cargo.toml"}, fileSystem.Writes())
		content := fileSystem.Content("/repo/Cargo.toml")
		assert.Contains(t, content, "stylus-sdk = \"0.10.3\"\n")
		assert.Contains(t, content, `stylus-sdk = { version = "0.10.3", features = ["stylus-test"] }`)
		assert.Contains(t, content, `serde = "1.0"`)
	})

	t.Run("should not write a file when nothing matches anymore", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/Cargo.toml": stylusCargo,
		})
		updates := []entities.VersionUpdate{cargoUpdate("dependencies", "0.8.0", "0.10.3", entities.StyleInline)}

		// when
		applied, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), updates)

		// then
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.Empty(t, fileSystem.Writes())
	})

	t.Run("should be idempotent when applied twice", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/package.json": frontendPackage,
		})
		update := entitybuilders.NewDeclarationBuilder().WithFile("/repo/package.json").BuildUpdate("2.33.0")
		command := newApplyCommand(fileSystem)
		_, err := command.Execute(context.Background(), "/repo", entities.NewDefaultSettings(),
			[]entities.VersionUpdate{update})
		require.NoError(t, err)
		first := fileSystem.Content("/repo/package.json")

		// when
		applied, err := command.Execute(context.Background(), "/repo", entities.NewDefaultSettings(),
			[]entities.VersionUpdate{update})

		// then
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.Equal(t, first, fileSystem.Content("/repo/package.json"))
		assert.Contains(t, first, `"viem": "^2.33.0"`)
	})

	t.Run("should skip declarations that cannot be rewritten", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/lib/forge-std": "",
		})
		update := entitybuilders.NewDeclarationBuilder().
			WithEcosystem(entities.EcosystemForgeStd).
			WithFile("/repo/lib/forge-std").
			WithName("forge-std").
			WithVersion("v1.9.4").
			WithStyle(entities.StyleSubmodule).
			BuildUpdate("1.9.6")

		// when
		applied, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), []entities.VersionUpdate{update})

		// then
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.Empty(t, fileSystem.Writes())
	})

	t.Run("should keep rewriting the other manifests when one cannot be written", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/a/Cargo.toml": stylusCargo,
			"/repo/b/Cargo.toml": stylusCargo,
		})
		fileSystem.WriteErr = map[string]error{"/repo/a/Cargo.toml": errors.New("read-only file system")}
		updates := []entities.VersionUpdate{
			stylusUpdateIn("/repo/a/Cargo.toml"),
			stylusUpdateIn("/repo/b/Cargo.toml"),
		}

		// when
		applied, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), updates)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only file system")
		require.Len(t, applied, 1)
		assert.Equal(t, "/repo/b/Cargo.toml", applied[0].Declaration.File)
		assert.Contains(t, fileSystem.Content("/repo/b/Cargo.toml"), `stylus-sdk = "0.10.3"`)
		assert.Contains(t, fileSystem.Content("/repo/a/Cargo.toml"), `stylus-sdk = "0.9.0"`)
	})

	t.Run("should keep rewriting the other manifests when one cannot be read", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/b/Cargo.toml": stylusCargo,
		})
		fileSystem.ReadErr = map[string]error{"/repo/a/Cargo.toml": errors.New("permission denied")}
		updates := []entities.VersionUpdate{
			stylusUpdateIn("/repo/a/Cargo.toml"),
			stylusUpdateIn("/repo/b/Cargo.toml"),
		}

		// when
		applied, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), updates)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		require.Len(t, applied, 1)
		assert.Contains(t, fileSystem.Content("/repo/b/Cargo.toml"), `stylus-sdk = "0.10.3"`)
	})

	t.Run("should record only the applied updates in the changelog when a manifest fails", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/a/Cargo.toml": stylusCargo,
			"/repo/b/Cargo.toml": stylusCargo,
			"/repo/CHANGELOG.md": unreleasedChangelog,
		})
		fileSystem.WriteErr = map[string]error{"/repo/a/Cargo.toml": errors.New("read-only file system")}
		settings := entities.NewDefaultSettings()
		settings.Changelog = true
		updates := []entities.VersionUpdate{
			stylusUpdateIn("/repo/a/Cargo.toml"),
			stylusUpdateIn("/repo/b/Cargo.toml"),
		}

		// when
		applied, err := newApplyCommand(fileSystem).Execute(context.Background(), "/repo", settings, updates)

		// then
		require.Error(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, 1, strings.Count(fileSystem.Content("/repo/CHANGELOG.md"), "`stylus-sdk`"))
	})

	t.Run("should add changelog entries when enabled", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/Cargo.toml":   stylusCargo,
			"/repo/CHANGELOG.md": unreleasedChangelog,
		})
		settings := entities.NewDefaultSettings()
		settings.Changelog = true
		updates := []entities.VersionUpdate{cargoUpdate("dependencies", "0.9.0", "0.10.3", entities.StyleInline)}

		// when
		_, err := newApplyCommand(fileSystem).Execute(context.Background(), "/repo", settings, updates)

		// then
		require.NoError(t, err)
		assert.Contains(t, fileSystem.Content("/repo/CHANGELOG.md"),
			"## [Unreleased]\n\n### Changed\n\n- changed the `stylus-sdk` cargo dependency from `0.9.0` to `0.10.3`\n")
	})

	t.Run("should leave the changelog alone when disabled", func(t *testing.T) {
		t.Parallel()

		// given
		fileSystem := repositorydoubles.NewInMemoryFileSystemRepository(map[string]string{
			"/repo/Cargo.toml":   stylusCargo,
			"/repo/CHANGELOG.md": unreleasedChangelog,
		})
		updates := []entities.VersionUpdate{cargoUpdate("dependencies", "0.9.0", "0.10.3", entities.StyleInline)}

		// when
		_, err := newApplyCommand(fileSystem).Execute(
			context.Background(), "/repo", entities.NewDefaultSettings(), updates)

		// then
		require.NoError(t, err)
		assert.Equal(t, unreleasedChangelog, fileSystem.Content("/repo/CHANGELOG.md"))
	})
}
