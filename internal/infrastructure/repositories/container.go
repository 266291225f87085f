package repositories

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/arbupdate/internal/domain/repositories"
	cargoRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/cargo"
	fsRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/filesystem"
	forgeStdRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/forgestd"
	foundryRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/foundry"
	ghRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/github"
	npmRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/npm"
	registryRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/registry"
	rewriterRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/rewriter"
	wcRepo "github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/workingcopy"
)

const registryCacheSize = 256

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(func() logger.FieldLogger {
		return logger.StandardLogger()
	}); err != nil {
		return err
	}

	if err := container.Provide(fsRepo.NewLocalFileSystemRepository); err != nil {
		return err
	}
	if err := container.Provide(rewriterRepo.NewDeclarationRewriterRepository); err != nil {
		return err
	}
	if err := container.Provide(forgeStdRepo.NewForgeStdResolverRepository); err != nil {
		return err
	}
	if err := container.Provide(wcRepo.NewGitWorkingCopyRepository); err != nil {
		return err
	}

	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register("github", ghRepo.NewGitHubPullRequestRepository)
		return reg
	}); err != nil {
		return err
	}

	// Every registry lookup goes through an LRU so repeated identifiers across
	// manifests cost a single request
	if err := container.Provide(NewDefaultEcosystemRegistry); err != nil {
		return err
	}

	return nil
}

// NewDefaultEcosystemRegistry wires the Cargo, npm and Foundry manifests to
// their public registries, plus the GitHub releases of forge-std.
func NewDefaultEcosystemRegistry() (*EcosystemRegistry, error) {
	reg := NewEcosystemRegistry()

	pairs := []struct {
		manifest domainRepos.ManifestRepository
		registry domainRepos.RegistryRepository
	}{
		{cargoRepo.NewCargoManifestRepository(), registryRepo.NewCratesRegistryRepository("")},
		{npmRepo.NewNpmManifestRepository(), registryRepo.NewNpmRegistryRepository("")},
		{foundryRepo.NewFoundryManifestRepository(), registryRepo.NewSolcRegistryRepository("")},
	}
	for _, pair := range pairs {
		cached, err := registryRepo.NewCachedRegistryRepository(pair.registry, registryCacheSize)
		if err != nil {
			return nil, err
		}
		reg.Register(pair.manifest, cached)
	}

	releases, err := registryRepo.NewGitHubReleaseRegistryRepository(githubToken(), os.Getenv("GITHUB_API_URL"))
	if err != nil {
		return nil, err
	}
	cached, err := registryRepo.NewCachedRegistryRepository(releases, registryCacheSize)
	if err != nil {
		return nil, err
	}
	reg.RegisterForgeStd(cached)

	return reg, nil
}

// githubToken seeds the releases client until a scan authenticates it with
// the configured token.
func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}
