//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// StubReferenceResolverRepository implements repositories.ReferenceResolverRepository.
type StubReferenceResolverRepository struct {
	Declaration *entities.Declaration
	Err         error
	CallCount   int
}

var _ repositories.ReferenceResolverRepository = (*StubReferenceResolverRepository)(nil)

func (s *StubReferenceResolverRepository) Resolve(
	_ context.Context,
	_ string,
	_ *entities.Settings,
) (*entities.Declaration, error) {
	s.CallCount++
	return s.Declaration, s.Err
}
