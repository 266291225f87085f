package forgestd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/npm"
)

const (
	dependencyName  = "forge-std"
	gitmodulesFile  = ".gitmodules"
	remappingsFile  = "remappings.txt"
	packageJSONFile = "package.json"
	defaultCheckout = "lib/forge-std"
)

//nolint:gochecknoglobals // package.json sections that may pin forge-std
var packageSections = []string{"dependencies", "devDependencies"}

type sourceFunc func(ctx context.Context, root string, settings *entities.Settings) (*entities.Declaration, error)

// ForgeStdResolverRepository finds how a Foundry project pins forge-std.
type ForgeStdResolverRepository struct {
	fileSystem repositories.FileSystemRepository
	log        logger.FieldLogger
	sources    map[string]sourceFunc
}

// NewForgeStdResolverRepository creates a resolver reading through the given file system.
func NewForgeStdResolverRepository(
	fileSystem repositories.FileSystemRepository,
	log logger.FieldLogger,
) repositories.ReferenceResolverRepository {
	resolver := &ForgeStdResolverRepository{fileSystem: fileSystem, log: log}
	resolver.sources = map[string]sourceFunc{
		entities.ForgeStdSourceSubmodule:   resolver.fromSubmodule,
		entities.ForgeStdSourceRemapping:   resolver.fromRemapping,
		entities.ForgeStdSourcePackageJSON: resolver.fromPackageJSON,
	}
	return resolver
}

// Resolve tries the sources in the configured precedence; the first hit wins.
func (r *ForgeStdResolverRepository) Resolve(
	ctx context.Context,
	root string,
	settings *entities.Settings,
) (*entities.Declaration, error) {
	for _, name := range settings.Foundry.Precedence {
		source, ok := r.sources[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown forge-std source %q", entities.ErrConfiguration, name)
		}

		declaration, err := source(ctx, root, settings)
		if err != nil {
			return nil, err
		}
		if declaration != nil {
			return declaration, nil
		}
	}
	return nil, nil //nolint:nilnil // forge-std is optional
}

func (r *ForgeStdResolverRepository) fromSubmodule(
	ctx context.Context,
	root string,
	_ *entities.Settings,
) (*entities.Declaration, error) {
	path := filepath.Join(root, gitmodulesFile)
	if !r.fileSystem.Exists(ctx, path) {
		return nil, nil //nolint:nilnil // source not present
	}
	content, err := r.fileSystem.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	modules := config.NewModules()
	if unmarshalErr := modules.Unmarshal(content); unmarshalErr != nil {
		r.log.Warnf("[forge-std] Ignoring unreadable %s: %v", path, unmarshalErr)
		return nil, nil //nolint:nilnil // treated as absent
	}

	names := make([]string, 0, len(modules.Submodules))
	for name := range modules.Submodules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		submodule := modules.Submodules[name]
		if !mentionsForgeStd(submodule.Name, submodule.Path, submodule.URL) {
			continue
		}
		checkout := submodule.Path
		if checkout == "" {
			checkout = defaultCheckout
		}
		checkoutPath := filepath.Join(root, filepath.FromSlash(checkout))
		if !r.fileSystem.Exists(ctx, checkoutPath) {
			continue
		}

		version, tagErr := checkedOutTag(checkoutPath)
		if tagErr != nil {
			r.log.Debugf("[forge-std] No release tag found for %s: %v", checkoutPath, tagErr)
		}
		return &entities.Declaration{
			Ecosystem:          entities.EcosystemForgeStd,
			File:               checkoutPath,
			Name:               dependencyName,
			CurrentVersionText: version,
			Style:              entities.StyleSubmodule,
		}, nil
	}
	return nil, nil //nolint:nilnil // no forge-std submodule checked out
}

func (r *ForgeStdResolverRepository) fromRemapping(
	ctx context.Context,
	root string,
	_ *entities.Settings,
) (*entities.Declaration, error) {
	path := filepath.Join(root, remappingsFile)
	if !r.fileSystem.Exists(ctx, path) {
		return nil, nil //nolint:nilnil // source not present
	}
	content, err := r.fileSystem.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(content), dependencyName) {
		return nil, nil //nolint:nilnil // not remapped
	}
	return &entities.Declaration{
		Ecosystem: entities.EcosystemForgeStd,
		File:      path,
		Name:      dependencyName,
		Style:     entities.StyleRemapping,
	}, nil
}

func (r *ForgeStdResolverRepository) fromPackageJSON(
	ctx context.Context,
	root string,
	settings *entities.Settings,
) (*entities.Declaration, error) {
	files, err := r.fileSystem.ListFiles(ctx, root, packageJSONFile, settings.ExcludedDirs)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		content, readErr := r.fileSystem.ReadFile(ctx, file)
		if readErr != nil {
			r.log.Warnf("[forge-std] Could not read %s: %v", file, readErr)
			continue
		}
		if !gjson.ValidBytes(content) {
			r.log.Warnf("[forge-std] Skipping malformed %s", file)
			continue
		}

		for _, section := range packageSections {
			value := gjson.GetBytes(content, npm.JSONPath(section, dependencyName))
			if value.Type != gjson.String {
				continue
			}
			version, ok := entities.ExtractReferenceTag(value.String())
			if !ok {
				continue
			}
			return &entities.Declaration{
				Ecosystem:          entities.EcosystemForgeStd,
				File:               file,
				Section:            section,
				Name:               dependencyName,
				CurrentVersionText: version,
				Style:              entities.StyleReference,
				RawValue:           value.String(),
			}, nil
		}
	}
	return nil, nil //nolint:nilnil // no package.json pins forge-std
}

func mentionsForgeStd(values ...string) bool {
	for _, value := range values {
		if strings.Contains(value, dependencyName) {
			return true
		}
	}
	return false
}

// checkedOutTag returns the highest tag pointing at HEAD of the checkout.
func checkedOutTag(dir string) (string, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", dir, err)
	}
	head, err := repository.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	tags, err := repository.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	var matching []string
	err = tags.ForEach(func(reference *plumbing.Reference) error {
		target := reference.Hash()
		if annotated, tagErr := repository.TagObject(target); tagErr == nil {
			commit, commitErr := annotated.Commit()
			if commitErr != nil {
				return nil //nolint:nilerr // tag of a non-commit object
			}
			target = commit.Hash
		}
		if target == head.Hash() {
			matching = append(matching, reference.Name().Short())
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk tags: %w", err)
	}
	if len(matching) == 0 {
		return "", errors.New("HEAD is not tagged")
	}

	sort.Slice(matching, func(i, j int) bool {
		return semver.Compare(canonical(matching[i]), canonical(matching[j])) > 0
	})
	return matching[0], nil
}

func canonical(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}
