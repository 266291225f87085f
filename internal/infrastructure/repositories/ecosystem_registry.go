package repositories

import (
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// Ecosystem pairs the manifest reader of an ecosystem with the registry that
// knows its latest releases.
type Ecosystem struct {
	Manifest domainRepos.ManifestRepository
	Registry domainRepos.RegistryRepository
}

// EcosystemRegistry keeps the scanned ecosystems in registration order, which
// is also the order a scan walks them in.
type EcosystemRegistry struct {
	order      []entities.Ecosystem
	ecosystems map[entities.Ecosystem]Ecosystem
	forgeStd   domainRepos.RegistryRepository
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{
		ecosystems: make(map[entities.Ecosystem]Ecosystem),
	}
}

// Register adds a manifest reader and its registry under the reader's ecosystem.
func (r *EcosystemRegistry) Register(
	manifest domainRepos.ManifestRepository,
	registry domainRepos.RegistryRepository,
) {
	ecosystem := manifest.Ecosystem()
	if _, exists := r.ecosystems[ecosystem]; !exists {
		r.order = append(r.order, ecosystem)
	}
	r.ecosystems[ecosystem] = Ecosystem{Manifest: manifest, Registry: registry}
}

// RegisterForgeStd sets the registry forge-std releases are looked up in.
func (r *EcosystemRegistry) RegisterForgeStd(registry domainRepos.RegistryRepository) {
	r.forgeStd = registry
}

// Get returns the ecosystem, or false if it is not registered.
func (r *EcosystemRegistry) Get(ecosystem entities.Ecosystem) (Ecosystem, bool) {
	found, ok := r.ecosystems[ecosystem]
	return found, ok
}

// ForgeStd returns the forge-std release registry, or nil if none was registered.
func (r *EcosystemRegistry) ForgeStd() domainRepos.RegistryRepository {
	return r.forgeStd
}

// All returns every registered ecosystem in registration order.
func (r *EcosystemRegistry) All() []Ecosystem {
	result := make([]Ecosystem, 0, len(r.order))
	for _, ecosystem := range r.order {
		result = append(result, r.ecosystems[ecosystem])
	}
	return result
}

// Names returns the registered ecosystem names in registration order.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, ecosystem := range r.order {
		names = append(names, string(ecosystem))
	}
	return names
}
