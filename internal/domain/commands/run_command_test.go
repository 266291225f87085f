//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/arbupdate/internal/domain/commands"
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories"
	"github.com/rios0rios0/arbupdate/test/domain/commanddoubles"
	"github.com/rios0rios0/arbupdate/test/domain/entitybuilders"
	"github.com/rios0rios0/arbupdate/test/infrastructure/repositorydoubles"
)

type runFixture struct {
	scan        *commanddoubles.StubScanCommand
	apply       *commanddoubles.StubApplyCommand
	workingCopy *repositorydoubles.SpyWorkingCopyRepository
	provider    *repositorydoubles.SpyPullRequestRepository
	command     *commands.RunCommand
}

func newRunFixture() *runFixture {
	fixture := &runFixture{
		scan: &commanddoubles.StubScanCommand{Result: &entities.ScanResult{
			Updates: []entities.VersionUpdate{
				entitybuilders.NewDeclarationBuilder().WithFile("/repo/package.json").BuildUpdate("2.33.0"),
			},
		}},
		apply: &commanddoubles.StubApplyCommand{},
		workingCopy: &repositorydoubles.SpyWorkingCopyRepository{
			Changes: true,
			RemoteRepo: entities.Repository{
				Name:         "stylus-hello-world",
				Organization: "OffchainLabs",
				ProviderName: "github",
			},
		},
		provider: &repositorydoubles.SpyPullRequestRepository{
			ProviderName: "github",
			PullRequest: &entities.PullRequest{
				ID:    42,
				Title: "chore(deps): update Arbitrum dependencies (main)",
				URL:   "https://github.com/OffchainLabs/stylus-hello-world/pull/42",
			},
		},
	}

	providers := infraRepos.NewProviderRegistry()
	providers.Register("github", fixture.provider.Factory)

	log, _ := test.NewNullLogger()
	fixture.command = commands.NewRunCommand(fixture.scan, fixture.apply, fixture.workingCopy, providers, log)
	fixture.command.SetClock(func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) })
	return fixture
}

func runSettings() *entities.Settings {
	settings := entities.NewDefaultSettings()
	settings.Root = "/repo"
	settings.Token = "secret"
	return settings
}

func TestRunCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should open a pull request for every branch with updates", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		settings := runSettings()
		settings.Branches = []string{"main", "develop"}

		// when
		outputs, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"main", "develop"}, fixture.workingCopy.CheckedOut)
		assert.Equal(t, []string{
			"arbitrum-dep-update/main/2026-03-14",
			"arbitrum-dep-update/develop/2026-03-14",
		}, fixture.workingCopy.CreatedBranches)
		assert.Equal(t, fixture.workingCopy.CreatedBranches, fixture.workingCopy.Pushed)
		assert.Equal(t, []string{"secret", "secret"}, fixture.workingCopy.PushTokens)
		require.Len(t, fixture.provider.CreateCalls, 2)
		input := fixture.provider.CreateCalls[1].Input
		assert.Equal(t, "refs/heads/arbitrum-dep-update/develop/2026-03-14", input.SourceBranch)
		assert.Equal(t, "refs/heads/develop", input.TargetBranch)
		assert.Equal(t, "chore(deps): update Arbitrum dependencies (develop)", input.Title)
		assert.Contains(t, input.Description, "viem")
		assert.Equal(t, "secret", fixture.provider.Token)

		assert.True(t, outputs.UpdatesAvailable)
		assert.Equal(t, 2, outputs.UpdateCount)
		assert.Equal(t, []int{42, 42}, outputs.PullRequestNumbers)
	})

	t.Run("should skip a branch that cannot be checked out", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.workingCopy.CheckoutErrs = map[string]error{"release": errors.New("couldn't find remote ref")}
		settings := runSettings()
		settings.Branches = []string{"release", "main"}

		// when
		outputs, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, fixture.scan.ExecuteCallCount)
		assert.Equal(t, []string{"arbitrum-dep-update/main/2026-03-14"}, fixture.workingCopy.CreatedBranches)
		assert.Equal(t, 1, outputs.UpdateCount)
	})

	t.Run("should only report in dry run mode", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		settings := runSettings()
		settings.DryRun = true
		settings.Token = ""

		// when
		outputs, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, fixture.apply.ExecuteCallCount)
		assert.Empty(t, fixture.workingCopy.Commits)
		assert.True(t, outputs.UpdatesAvailable)
		assert.Equal(t, 1, outputs.UpdateCount)
		assert.Empty(t, outputs.PullRequestURLs)
	})

	t.Run("should apply without publishing when pull requests are disabled", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		settings := runSettings()
		settings.CreatePR = false
		settings.Token = ""

		// when
		outputs, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, fixture.apply.ExecuteCallCount)
		assert.Empty(t, fixture.workingCopy.CreatedBranches)
		assert.Empty(t, fixture.provider.CreateCalls)
		assert.Equal(t, 1, outputs.UpdateCount)
	})

	t.Run("should require a token to open pull requests", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		settings := runSettings()
		settings.Token = ""

		// when
		_, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
		assert.Empty(t, fixture.workingCopy.CheckedOut)
	})

	t.Run("should do nothing further when every dependency is up to date", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.scan.Result = &entities.ScanResult{}

		// when
		outputs, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, fixture.apply.ExecuteCallCount)
		assert.False(t, outputs.UpdatesAvailable)
	})

	t.Run("should not commit when the worktree is clean", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.workingCopy.Changes = false

		// when
		outputs, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.workingCopy.Commits)
		assert.Empty(t, outputs.PullRequestURLs)
	})

	t.Run("should use the current branch when no branch is configured", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.workingCopy.Branch = "feature"
		settings := runSettings()
		settings.Branches = nil

		// when
		outputs, err := fixture.command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.workingCopy.CheckedOut)
		assert.Equal(t, []string{"arbitrum-dep-update/feature/2026-03-14"}, fixture.workingCopy.CreatedBranches)
		assert.Equal(t, []string{"https://github.com/OffchainLabs/stylus-hello-world/pull/42"},
			outputs.PullRequestURLs)
	})

	t.Run("should publish the updates that were applied when some manifests fail", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.apply.Applied = fixture.scan.Result.Updates
		fixture.apply.ExecuteErr = errors.New("failed to write /repo/contracts/Cargo.toml")

		// when
		outputs, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.NoError(t, err)
		require.Len(t, fixture.provider.CreateCalls, 1)
		assert.Equal(t, 1, outputs.UpdateCount)
		assert.Equal(t, []int{42}, outputs.PullRequestNumbers)
	})

	t.Run("should skip the branch when no update could be applied", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.apply.ExecuteErr = errors.New("failed to write /repo/package.json")

		// when
		outputs, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.workingCopy.Commits)
		assert.Empty(t, fixture.provider.CreateCalls)
		assert.Equal(t, 0, outputs.UpdateCount)
	})

	t.Run("should keep going when a branch fails to push", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.workingCopy.PushErr = errors.New("authentication required")

		// when
		outputs, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.provider.CreateCalls)
		assert.Equal(t, 0, outputs.UpdateCount)
	})

	t.Run("should stop on a configuration error from the scan", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newRunFixture()
		fixture.scan.ExecuteErr = entities.ErrConfiguration

		// when
		_, err := fixture.command.Execute(context.Background(), runSettings())

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
	})
}
