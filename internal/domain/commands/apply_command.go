package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const changelogFile = "CHANGELOG.md"

// Apply is the interface for the apply command.
type Apply interface {
	Execute(
		ctx context.Context,
		root string,
		settings *entities.Settings,
		updates []entities.VersionUpdate,
	) ([]entities.VersionUpdate, error)
}

// ApplyCommand writes version updates back into their manifests.
type ApplyCommand struct {
	fileSystem repositories.FileSystemRepository
	rewriter   repositories.RewriterRepository
	log        logger.FieldLogger
}

// NewApplyCommand creates a new ApplyCommand.
func NewApplyCommand(
	fileSystem repositories.FileSystemRepository,
	rewriter repositories.RewriterRepository,
	log logger.FieldLogger,
) *ApplyCommand {
	return &ApplyCommand{fileSystem: fileSystem, rewriter: rewriter, log: log}
}

// Execute applies the updates file by file and returns the ones that changed
// something. A file that fails is skipped and its error joined into the
// returned one, so the other files are still rewritten. When enabled, the
// applied updates are also recorded in the project's CHANGELOG.md.
func (it *ApplyCommand) Execute(
	ctx context.Context,
	root string,
	settings *entities.Settings,
	updates []entities.VersionUpdate,
) ([]entities.VersionUpdate, error) {
	var order []string
	byFile := make(map[string][]entities.VersionUpdate)
	for _, update := range updates {
		file := update.Declaration.File
		if _, seen := byFile[file]; !seen {
			order = append(order, file)
		}
		byFile[file] = append(byFile[file], update)
	}

	var (
		applied  []entities.VersionUpdate
		failures []error
	)
	for _, file := range order {
		if err := ctx.Err(); err != nil {
			return applied, err
		}

		changed, err := it.ApplyFile(ctx, root, file, byFile[file])
		if err != nil {
			it.log.WithField("file", entities.RelativePath(root, file)).Warnf("Skipping manifest: %v", err)
			failures = append(failures, err)
			continue
		}
		applied = append(applied, changed...)
	}

	if settings.Changelog && len(applied) > 0 {
		if err := it.updateChangelog(ctx, root, applied); err != nil {
			it.log.Warnf("Failed to update %s: %v", changelogFile, err)
			failures = append(failures, err)
		}
	}

	it.log.Infof("Applied %d of %d update(s)", len(applied), len(updates))
	return applied, errors.Join(failures...)
}

// ApplyFile reads one manifest, applies every update for it in order and
// writes it back once, only when at least one update changed its content.
func (it *ApplyCommand) ApplyFile(
	ctx context.Context,
	root string,
	file string,
	updates []entities.VersionUpdate,
) ([]entities.VersionUpdate, error) {
	fileLog := it.log.WithField("file", entities.RelativePath(root, file))

	content, err := it.fileSystem.ReadFile(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var applied []entities.VersionUpdate
	for _, update := range updates {
		rewritten, changed, rewriteErr := it.rewriter.Rewrite(content, update)
		if rewriteErr != nil {
			if errors.Is(rewriteErr, entities.ErrNotRewritable) {
				fileLog.Warnf("[%s] %s cannot be rewritten in place: %v",
					update.Declaration.Ecosystem, update.Declaration.Name, rewriteErr)
				continue
			}
			return nil, fmt.Errorf("failed to rewrite %s in %s: %w", update.Declaration.Name, file, rewriteErr)
		}
		if !changed {
			fileLog.Debugf("[%s] %s: %v", update.Declaration.Ecosystem, update.Declaration.Name,
				fmt.Errorf("%w: %q not found", entities.ErrRewriteMismatch, update.Declaration.OldText()))
			continue
		}

		fileLog.Infof("[%s] Updated %s to %s", update.Declaration.Ecosystem, update.Declaration.Name,
			update.LatestVersionText)
		content = rewritten
		applied = append(applied, update)
	}

	if len(applied) == 0 {
		return nil, nil
	}
	if err = it.fileSystem.WriteFile(ctx, file, content); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", file, err)
	}
	return applied, nil
}

func (it *ApplyCommand) updateChangelog(ctx context.Context, root string, applied []entities.VersionUpdate) error {
	path := filepath.Join(root, changelogFile)
	if !it.fileSystem.Exists(ctx, path) {
		it.log.Debugf("No %s found, skipping changelog entry", changelogFile)
		return nil
	}

	content, err := it.fileSystem.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", changelogFile, err)
	}

	updated := entities.InsertChangelogEntry(string(content), entities.ChangelogEntries(applied))
	if updated == string(content) {
		it.log.Warnf("%s has no [Unreleased] section, skipping changelog entry", changelogFile)
		return nil
	}
	if err = it.fileSystem.WriteFile(ctx, path, []byte(updated)); err != nil {
		return fmt.Errorf("failed to write %s: %w", changelogFile, err)
	}
	return nil
}
