package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories"
)

// Run is the interface for the run command.
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings) (*entities.RunOutputs, error)
}

// RunCommand orchestrates the full update flow for every configured branch:
// checkout -> scan -> apply -> commit, push and open a pull request.
type RunCommand struct {
	scan             Scan
	apply            Apply
	workingCopy      repositories.WorkingCopyRepository
	providerRegistry *infraRepos.ProviderRegistry
	log              logger.FieldLogger
	now              func() time.Time
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	scan Scan,
	apply Apply,
	workingCopy repositories.WorkingCopyRepository,
	providerRegistry *infraRepos.ProviderRegistry,
	log logger.FieldLogger,
) *RunCommand {
	return &RunCommand{
		scan:             scan,
		apply:            apply,
		workingCopy:      workingCopy,
		providerRegistry: providerRegistry,
		log:              log,
		now:              time.Now,
	}
}

// Execute runs the update cycle on each branch in turn. A branch that cannot
// be checked out or updated is skipped; configuration errors stop the run.
func (it *RunCommand) Execute(ctx context.Context, settings *entities.Settings) (*entities.RunOutputs, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.PublishesPullRequests() && settings.Token == "" {
		return nil, fmt.Errorf(
			"%w: a GitHub token is required to open pull requests (set GITHUB_TOKEN or disable create_pr)",
			entities.ErrConfiguration,
		)
	}

	outputs := &entities.RunOutputs{}
	if len(settings.Branches) == 0 {
		current, err := it.workingCopy.CurrentBranch(ctx, settings.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to detect the current branch: %w", err)
		}
		if err = it.processBranch(ctx, settings, current, outputs); err != nil {
			return nil, err
		}
		it.logOutputs(outputs)
		return outputs, nil
	}

	processed := 0
	for _, branch := range settings.Branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it.log.Infof("Processing branch %s", branch)
		if err := it.workingCopy.Checkout(ctx, settings.Root, branch, settings.Token); err != nil {
			it.log.Errorf("Failed to check out %s, skipping: %v", branch, err)
			continue
		}

		if err := it.processBranch(ctx, settings, branch, outputs); err != nil {
			if errors.Is(err, entities.ErrConfiguration) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			it.log.Errorf("Failed to update %s: %v", branch, err)
			continue
		}
		processed++
	}

	it.log.Infof("Run complete: %d of %d branch(es) processed", processed, len(settings.Branches))
	it.logOutputs(outputs)
	return outputs, nil
}

func (it *RunCommand) processBranch(
	ctx context.Context,
	settings *entities.Settings,
	branch string,
	outputs *entities.RunOutputs,
) error {
	result, err := it.scan.Execute(ctx, settings.Root, settings)
	if err != nil {
		return err
	}

	it.log.Infof(
		"[%s] %d update(s) available, %d up to date, %d lookup failure(s), %d manual update(s)",
		branch, len(result.Updates), len(result.UpToDate), len(result.Failures), len(result.Advisories),
	)
	if !result.HasUpdates() {
		it.log.Infof("[%s] All tracked dependencies are up to date", branch)
		return nil
	}
	it.log.Infof("[%s] Summary:\n%s", branch, entities.BuildSummaryTable(settings.Root, result.Updates))

	if settings.DryRun {
		it.log.Infof("[%s] Dry run, no files were changed", branch)
		outputs.Record(len(result.Updates), nil)
		return nil
	}

	applied, err := it.apply.Execute(ctx, settings.Root, settings, result.Updates)
	if err != nil {
		if len(applied) == 0 || ctx.Err() != nil {
			return err
		}
		it.log.Warnf("[%s] Some updates were not applied: %v", branch, err)
	}
	if len(applied) == 0 || !settings.PublishesPullRequests() {
		outputs.Record(len(applied), nil)
		return nil
	}

	pullRequest, err := it.publish(ctx, settings, branch, applied)
	if err != nil {
		return err
	}
	outputs.Record(len(applied), pullRequest)
	return nil
}

// publish commits the applied updates on a fresh branch, pushes it and opens
// a pull request against target.
func (it *RunCommand) publish(
	ctx context.Context,
	settings *entities.Settings,
	target string,
	applied []entities.VersionUpdate,
) (*entities.PullRequest, error) {
	changed, err := it.workingCopy.HasChanges(ctx, settings.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect the worktree: %w", err)
	}
	if !changed {
		it.log.Infof("[%s] Worktree is clean, nothing to commit", target)
		return nil, nil //nolint:nilnil // no pull request needed
	}

	branchName := entities.BuildBranchName(target, it.now())
	if err = it.workingCopy.CreateBranch(ctx, settings.Root, branchName); err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}
	if err = it.workingCopy.CommitAll(ctx, settings.Root, entities.BuildCommitMessage(target, applied)); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	if err = it.workingCopy.Push(ctx, settings.Root, branchName, settings.Token); err != nil {
		return nil, fmt.Errorf("failed to push %s: %w", branchName, err)
	}

	repo, err := it.workingCopy.Remote(ctx, settings.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to describe the remote: %w", err)
	}
	provider, err := it.providerRegistry.ForRemote(repo, settings.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrConfiguration, err)
	}

	pullRequest, err := provider.CreatePullRequest(ctx, repo, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + branchName,
		TargetBranch: "refs/heads/" + target,
		Title:        entities.BuildPullRequestTitle(target),
		Description:  entities.BuildPullRequestBody(settings.Root, target, applied),
	})
	if err != nil {
		return nil, err
	}

	it.log.Infof("[%s] Created PR #%d: %s (%s)", target, pullRequest.ID, pullRequest.Title, pullRequest.URL)
	return pullRequest, nil
}

func (it *RunCommand) logOutputs(outputs *entities.RunOutputs) {
	it.log.WithFields(logger.Fields{
		"updates-available": outputs.UpdatesAvailable,
		"update-count":      outputs.UpdateCount,
		"pr-urls":           outputs.PullRequestURLs,
		"pr-numbers":        outputs.PullRequestNumbers,
	}).Info("Run outputs")
}
