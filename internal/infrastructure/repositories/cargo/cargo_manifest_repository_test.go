//go:build unit

package cargo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/cargo"
)

const stylusManifest = `[package]
name = "counter"
version = "0.1.0"

[dependencies]
stylus-sdk = "0.9.0"
alloy-primitives = { version = "=0.8.20", default-features = false, features = ["native-keccak"] }
alloy = { git = "https://github.com/alloy-rs/alloy" }

[dependencies.alloy-sol-types]
version = "^0.8.20"
default-features = false

[dev-dependencies]
stylus-sdk = { version = "0.9.0", features = ["stylus-test"] }

[workspace.dependencies]
alloy_primitives = "0.8.20"
`

func TestCargoManifestRepositoryExtract(t *testing.T) {
	t.Parallel()

	t.Run("should read inline and table declarations in section order", func(t *testing.T) {
		t.Parallel()
		// given
		repository := cargo.NewCargoManifestRepository()
		tracked := []string{"stylus-sdk", "alloy-primitives", "alloy-sol-types", "alloy"}

		// when
		declarations, err := repository.Extract("Cargo.toml", []byte(stylusManifest), tracked)

		// then
		require.NoError(t, err)
		require.Len(t, declarations, 5)

		assert.Equal(t, entities.Declaration{
			Ecosystem: entities.EcosystemCargo, File: "Cargo.toml", Section: "dependencies",
			Name: "stylus-sdk", CurrentVersionText: "0.9.0", Style: entities.StyleInline,
		}, declarations[0])
		assert.Equal(t, "alloy-primitives", declarations[1].Name)
		assert.Equal(t, "=0.8.20", declarations[1].CurrentVersionText)
		assert.Equal(t, entities.StyleTable, declarations[1].Style)
		assert.Equal(t, "alloy-sol-types", declarations[2].Name)
		assert.Equal(t, "^0.8.20", declarations[2].CurrentVersionText)
		assert.Equal(t, entities.StyleTable, declarations[2].Style)
		assert.Equal(t, "dev-dependencies", declarations[3].Section)
		assert.Equal(t, entities.StyleTable, declarations[3].Style)
		assert.Equal(t, "workspace.dependencies", declarations[4].Section)
		assert.Equal(t, "alloy-primitives", declarations[4].Name)
	})

	t.Run("should ignore untracked crates", func(t *testing.T) {
		t.Parallel()
		// given
		repository := cargo.NewCargoManifestRepository()

		// when
		declarations, err := repository.Extract("Cargo.toml", []byte(stylusManifest), []string{"serde"})

		// then
		require.NoError(t, err)
		assert.Empty(t, declarations)
	})

	t.Run("should wrap parse failures", func(t *testing.T) {
		t.Parallel()
		// given
		repository := cargo.NewCargoManifestRepository()

		// when
		_, err := repository.Extract("Cargo.toml", []byte("[dependencies\nalloy = "), []string{"alloy"})

		// then
		require.ErrorIs(t, err, entities.ErrParseFailure)
	})
}
