//go:build unit

package npm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/npm"
)

const frontendManifest = `{
    "name": "dapp",
    "dependencies": {
        "viem": "^2.29.4",
        "@tanstack/react-query": "~5.59.0",
        "wagmi": { "not": "a string" }
    },
    "devDependencies": {
        "@openzeppelin/contracts": "5.1.0"
    },
    "peerDependencies": {
        "viem": ">=2.0.0"
    }
}
`

func TestNpmManifestRepositoryExtract(t *testing.T) {
	t.Parallel()

	t.Run("should read string declarations with their range prefix", func(t *testing.T) {
		t.Parallel()
		// given
		repository := npm.NewNpmManifestRepository()
		tracked := []string{"viem", "wagmi", "@tanstack/react-query", "@openzeppelin/contracts"}

		// when
		declarations, err := repository.Extract("package.json", []byte(frontendManifest), tracked)

		// then
		require.NoError(t, err)
		require.Len(t, declarations, 4)
		assert.Equal(t, entities.Declaration{
			Ecosystem: entities.EcosystemNpm, File: "package.json", Section: "dependencies",
			Name: "viem", CurrentVersionText: "^2.29.4", Style: entities.StyleInline,
		}, declarations[0])
		assert.Equal(t, "@tanstack/react-query", declarations[1].Name)
		assert.Equal(t, "~5.59.0", declarations[1].CurrentVersionText)
		assert.Equal(t, "devDependencies", declarations[2].Section)
		assert.Equal(t, "5.1.0", declarations[2].CurrentVersionText)
		assert.Equal(t, "peerDependencies", declarations[3].Section)
		assert.Equal(t, ">=2.0.0", declarations[3].CurrentVersionText)
	})

	t.Run("should wrap parse failures", func(t *testing.T) {
		t.Parallel()
		// given
		repository := npm.NewNpmManifestRepository()

		// when
		_, err := repository.Extract("package.json", []byte(`{"dependencies": {`), []string{"viem"})

		// then
		require.ErrorIs(t, err, entities.ErrParseFailure)
	})
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	t.Run("should escape path syntax inside keys", func(t *testing.T) {
		t.Parallel()
		// given
		section, name := "dependencies", "@scope/pkg.js"

		// when
		path := npm.JSONPath(section, name)

		// then
		assert.Equal(t, `dependencies.\@scope/pkg\.js`, path)
	})
}
