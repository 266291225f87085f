package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories"
)

// Scan is the interface for the scan command.
type Scan interface {
	Execute(ctx context.Context, root string, settings *entities.Settings) (*entities.ScanResult, error)
}

// ScanCommand walks every enabled ecosystem of a project and compares the
// declared versions of tracked dependencies with their latest releases.
type ScanCommand struct {
	fileSystem repositories.FileSystemRepository
	resolver   repositories.ReferenceResolverRepository
	ecosystems *infraRepos.EcosystemRegistry
	log        logger.FieldLogger
}

// NewScanCommand creates a new ScanCommand.
func NewScanCommand(
	fileSystem repositories.FileSystemRepository,
	resolver repositories.ReferenceResolverRepository,
	ecosystems *infraRepos.EcosystemRegistry,
	log logger.FieldLogger,
) *ScanCommand {
	return &ScanCommand{
		fileSystem: fileSystem,
		resolver:   resolver,
		ecosystems: ecosystems,
		log:        log,
	}
}

// Execute scans root. Only configuration errors and cancellation abort it:
// unreadable manifests and failed lookups are logged and skipped.
func (it *ScanCommand) Execute(
	ctx context.Context,
	root string,
	settings *entities.Settings,
) (*entities.ScanResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	it.authenticate(settings.Token)

	result := &entities.ScanResult{}
	for _, ecosystem := range it.ecosystems.All() {
		name := ecosystem.Manifest.Ecosystem()
		if !settings.Enabled(name) {
			it.log.Debugf("[%s] Disabled, skipping", name)
			continue
		}

		tracked := settings.Tracked(name)
		if len(tracked) == 0 {
			continue
		}

		found, err := it.scanEcosystem(ctx, root, ecosystem, tracked, settings)
		if err != nil {
			return nil, err
		}
		result.Merge(found)
	}

	if settings.Enabled(entities.EcosystemForgeStd) && it.ecosystems.ForgeStd() != nil {
		found, err := it.scanForgeStd(ctx, root, settings)
		if err != nil {
			return nil, err
		}
		result.Merge(found)
	}

	return result, nil
}

// authenticate hands the run's token to every registry that can use one.
func (it *ScanCommand) authenticate(token string) {
	if token == "" {
		return
	}
	registries := []repositories.RegistryRepository{it.ecosystems.ForgeStd()}
	for _, ecosystem := range it.ecosystems.All() {
		registries = append(registries, ecosystem.Registry)
	}
	for _, registry := range registries {
		if authenticated, ok := registry.(repositories.AuthenticatedRegistryRepository); ok {
			authenticated.Authenticate(token)
		}
	}
}

func (it *ScanCommand) scanEcosystem(
	ctx context.Context,
	root string,
	ecosystem infraRepos.Ecosystem,
	tracked []string,
	settings *entities.Settings,
) (*entities.ScanResult, error) {
	name := ecosystem.Manifest.Ecosystem()
	files, err := it.fileSystem.ListFiles(ctx, root, ecosystem.Manifest.FileName(), settings.ExcludedDirs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		it.log.Warnf("[%s] Failed to list %s files: %v", name, ecosystem.Manifest.FileName(), err)
		return nil, nil //nolint:nilnil // nothing to merge
	}
	it.log.Debugf("[%s] Found %d %s file(s)", name, len(files), ecosystem.Manifest.FileName())

	result := &entities.ScanResult{}
	for _, file := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		fileLog := it.log.WithField("file", entities.RelativePath(root, file))
		content, readErr := it.fileSystem.ReadFile(ctx, file)
		if readErr != nil {
			fileLog.Warnf("[%s] Failed to read manifest: %v", name, readErr)
			continue
		}

		declarations, extractErr := ecosystem.Manifest.Extract(file, content, tracked)
		if extractErr != nil {
			fileLog.Warnf("[%s] Skipping manifest: %v", name, extractErr)
			continue
		}
		if len(declarations) == 0 {
			continue
		}

		result.Merge(it.lookup(ctx, root, ecosystem.Registry, declarations, settings))
	}
	return result, nil
}

func (it *ScanCommand) scanForgeStd(
	ctx context.Context,
	root string,
	settings *entities.Settings,
) (*entities.ScanResult, error) {
	declaration, err := it.resolver.Resolve(ctx, root, settings)
	if err != nil {
		if errors.Is(err, entities.ErrConfiguration) {
			return nil, err
		}
		it.log.Warnf("[%s] Failed to resolve the forge-std reference: %v", entities.EcosystemForgeStd, err)
		return nil, nil //nolint:nilnil // nothing to merge
	}
	if declaration == nil {
		it.log.Debugf("[%s] No forge-std reference found", entities.EcosystemForgeStd)
		return nil, nil //nolint:nilnil // nothing to merge
	}

	return it.lookup(ctx, root, it.ecosystems.ForgeStd(), []entities.Declaration{*declaration}, settings), nil
}

// lookup fetches the latest version of every declaration concurrently and
// classifies the results in declaration order.
func (it *ScanCommand) lookup(
	ctx context.Context,
	root string,
	registry repositories.RegistryRepository,
	declarations []entities.Declaration,
	settings *entities.Settings,
) *entities.ScanResult {
	latest := make([]string, len(declarations))
	failures := make([]error, len(declarations))

	var group errgroup.Group
	group.SetLimit(settings.Concurrency)
	for i, declaration := range declarations {
		if !declaration.HasVersion() {
			continue
		}
		group.Go(func() error {
			version, err := registry.LatestVersion(ctx, settings.LookupIdentifier(declaration))
			latest[i], failures[i] = version, err
			return nil
		})
	}
	_ = group.Wait()

	result := &entities.ScanResult{}
	for i, declaration := range declarations {
		fileLog := it.log.WithField("file", entities.RelativePath(root, declaration.File))
		if !declaration.HasVersion() {
			fileLog.Infof("[%s] %s has no resolvable version, skipping", declaration.Ecosystem, declaration.Name)
			continue
		}

		if failures[i] != nil {
			result.Failures = append(result.Failures, entities.LookupFailure{
				Declaration: declaration,
				Err:         fmt.Errorf("failed to look up %s on %s: %w", declaration.Name, registry.Name(), failures[i]),
			})
			if errors.Is(failures[i], entities.ErrNotFound) {
				fileLog.Warnf("[%s] %s was not found on %s", declaration.Ecosystem, declaration.Name, registry.Name())
			} else {
				fileLog.Warnf("[%s] Lookup of %s failed: %v", declaration.Ecosystem, declaration.Name, failures[i])
			}
			continue
		}

		update, ok := entities.NewVersionUpdate(declaration, latest[i])
		if !ok {
			fileLog.Debugf("[%s] %s %s is up to date", declaration.Ecosystem, declaration.Name,
				declaration.CurrentVersionText)
			result.UpToDate = append(result.UpToDate, declaration)
			continue
		}

		if !declaration.Style.Rewritable() {
			fileLog.Warnf("[%s] %s %s -> %s is available but the %s reference must be updated by hand",
				declaration.Ecosystem, declaration.Name, declaration.CurrentVersionText, latest[i], declaration.Style)
			result.Advisories = append(result.Advisories, update)
			continue
		}

		fileLog.Infof("[%s] %s %s -> %s", declaration.Ecosystem, declaration.Name,
			declaration.CurrentVersionText, latest[i])
		result.Updates = append(result.Updates, update)
	}
	return result
}
