//go:build unit

package forgestd_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/forgestd"
)

const gitmodules = `[submodule "lib/forge-std"]
	path = lib/forge-std
	url = https://github.com/foundry-rs/forge-std
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func initTaggedRepository(t *testing.T, dir, tag string) {
	t.Helper()
	repository, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "README.md"), "forge-std\n")

	worktree, err := repository.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("README.md")
	require.NoError(t, err)
	hash, err := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "arbupdate", Email: "arbupdate@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	if tag != "" {
		_, err = repository.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
}

func newResolver() *forgestd.ForgeStdResolverRepository {
	log, _ := test.NewNullLogger()
	return forgestd.NewForgeStdResolverRepository(filesystem.NewLocalFileSystemRepository(), log).(*forgestd.ForgeStdResolverRepository)
}

func TestForgeStdResolverRepositoryResolve(t *testing.T) {
	t.Parallel()

	t.Run("should resolve a tagged submodule checkout", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".gitmodules"), gitmodules)
		initTaggedRepository(t, filepath.Join(root, "lib", "forge-std"), "v1.9.5")
		writeFile(t, filepath.Join(root, "remappings.txt"), "forge-std/=lib/forge-std/src/\n")

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, entities.NewDefaultSettings())

		// then
		require.NoError(t, err)
		require.NotNil(t, declaration)
		assert.Equal(t, entities.StyleSubmodule, declaration.Style)
		assert.Equal(t, "v1.9.5", declaration.CurrentVersionText)
		assert.Equal(t, filepath.Join(root, "lib", "forge-std"), declaration.File)
	})

	t.Run("should leave the version empty for an untagged submodule", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".gitmodules"), gitmodules)
		initTaggedRepository(t, filepath.Join(root, "lib", "forge-std"), "")

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, entities.NewDefaultSettings())

		// then
		require.NoError(t, err)
		require.NotNil(t, declaration)
		assert.False(t, declaration.HasVersion())
	})

	t.Run("should fall through to the remapping when the submodule is not checked out", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".gitmodules"), gitmodules)
		writeFile(t, filepath.Join(root, "remappings.txt"), "forge-std/=lib/forge-std/src/\n")

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, entities.NewDefaultSettings())

		// then
		require.NoError(t, err)
		require.NotNil(t, declaration)
		assert.Equal(t, entities.StyleRemapping, declaration.Style)
		assert.False(t, declaration.HasVersion())
	})

	t.Run("should read a package.json git reference", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "contracts", "package.json"),
			`{"devDependencies": {"forge-std": "github:foundry-rs/forge-std#v1.9.5"}}`)

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, entities.NewDefaultSettings())

		// then
		require.NoError(t, err)
		require.NotNil(t, declaration)
		assert.Equal(t, entities.Declaration{
			Ecosystem:          entities.EcosystemForgeStd,
			File:               filepath.Join(root, "contracts", "package.json"),
			Section:            "devDependencies",
			Name:               "forge-std",
			CurrentVersionText: "1.9.5",
			Style:              entities.StyleReference,
			RawValue:           "github:foundry-rs/forge-std#v1.9.5",
		}, *declaration)
	})

	t.Run("should honour a custom precedence", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "remappings.txt"), "forge-std/=lib/forge-std/src/\n")
		writeFile(t, filepath.Join(root, "package.json"),
			`{"dependencies": {"forge-std": "github:foundry-rs/forge-std#v1.9.5"}}`)
		settings := entities.NewDefaultSettings()
		settings.Foundry.Precedence = []string{entities.ForgeStdSourcePackageJSON, entities.ForgeStdSourceRemapping}

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, settings)

		// then
		require.NoError(t, err)
		require.NotNil(t, declaration)
		assert.Equal(t, entities.StyleReference, declaration.Style)
	})

	t.Run("should return nil when the project does not use forge-std", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"viem": "^2.0.0"}}`)

		// when
		declaration, err := newResolver().Resolve(context.Background(), root, entities.NewDefaultSettings())

		// then
		require.NoError(t, err)
		assert.Nil(t, declaration)
	})
}
