//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

func TestNewVersionUpdate(t *testing.T) {
	t.Parallel()

	t.Run("should keep the range prefix of an inline declaration", func(t *testing.T) {
		t.Parallel()
		// given
		declaration := entities.Declaration{
			Ecosystem:          entities.EcosystemNpm,
			Section:            "dependencies",
			Name:               "viem",
			CurrentVersionText: "^2.29.4",
			Style:              entities.StyleInline,
		}

		// when
		update, ok := entities.NewVersionUpdate(declaration, "2.33.0")

		// then
		require.True(t, ok)
		assert.Equal(t, "2.33.0", update.LatestVersionText)
		assert.Equal(t, "^2.33.0", update.NewDeclarationText)
	})

	t.Run("should rewrap a reference in its full raw value", func(t *testing.T) {
		t.Parallel()
		// given
		declaration := entities.Declaration{
			Ecosystem:          entities.EcosystemForgeStd,
			Section:            "devDependencies",
			Name:               "forge-std",
			CurrentVersionText: "1.9.5",
			Style:              entities.StyleReference,
			RawValue:           "github:foundry-rs/forge-std#v1.9.5",
		}

		// when
		update, ok := entities.NewVersionUpdate(declaration, "1.9.6")

		// then
		require.True(t, ok)
		assert.Equal(t, "github:foundry-rs/forge-std#v1.9.6", update.NewDeclarationText)
		assert.Equal(t, declaration.RawValue, update.Declaration.OldText())
	})

	t.Run("should not create an update when already current", func(t *testing.T) {
		t.Parallel()
		// given
		declaration := entities.Declaration{Name: "alloy", CurrentVersionText: "1.0.0", Style: entities.StyleInline}

		// when
		_, ok := entities.NewVersionUpdate(declaration, "1.0.0")

		// then
		assert.False(t, ok)
	})

	t.Run("should not create an update for a declaration without a version", func(t *testing.T) {
		t.Parallel()
		// given
		declaration := entities.Declaration{Name: "forge-std", Style: entities.StyleRemapping}

		// when
		_, ok := entities.NewVersionUpdate(declaration, "1.9.6")

		// then
		assert.False(t, ok)
	})
}

func TestStyleRewritable(t *testing.T) {
	t.Parallel()

	t.Run("should only allow in-place edits for textual styles", func(t *testing.T) {
		t.Parallel()
		// given / when / then
		assert.True(t, entities.StyleInline.Rewritable())
		assert.True(t, entities.StyleTable.Rewritable())
		assert.True(t, entities.StyleReference.Rewritable())
		assert.False(t, entities.StyleSubmodule.Rewritable())
		assert.False(t, entities.StyleRemapping.Rewritable())
	})
}

func TestScanResultMerge(t *testing.T) {
	t.Parallel()

	t.Run("should append every category in order", func(t *testing.T) {
		t.Parallel()
		// given
		result := &entities.ScanResult{
			Updates: []entities.VersionUpdate{{LatestVersionText: "1"}},
		}
		other := &entities.ScanResult{
			Updates:  []entities.VersionUpdate{{LatestVersionText: "2"}},
			UpToDate: []entities.Declaration{{Name: "alloy"}},
			Failures: []entities.LookupFailure{{Err: entities.ErrNotFound}},
		}

		// when
		result.Merge(other)
		result.Merge(nil)

		// then
		require.Len(t, result.Updates, 2)
		assert.Equal(t, "2", result.Updates[1].LatestVersionText)
		assert.Len(t, result.UpToDate, 1)
		assert.Len(t, result.Failures, 1)
		assert.True(t, result.HasUpdates())
	})
}
