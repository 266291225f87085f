//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// StubRegistryRepository implements repositories.RegistryRepository with canned answers.
// It is safe for the concurrent lookups a scan performs.
type StubRegistryRepository struct {
	RegistryName string
	Versions     map[string]string
	Errors       map[string]error

	mu     sync.Mutex
	calls  []string
	tokens []string
}

var _ repositories.AuthenticatedRegistryRepository = (*StubRegistryRepository)(nil)

func (s *StubRegistryRepository) Name() string { return s.RegistryName }

func (s *StubRegistryRepository) LatestVersion(_ context.Context, identifier string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, identifier)
	s.mu.Unlock()

	if err, ok := s.Errors[identifier]; ok {
		return "", err
	}
	if version, ok := s.Versions[identifier]; ok {
		return version, nil
	}
	return "", fmt.Errorf("%w: %s", entities.ErrNotFound, identifier)
}

func (s *StubRegistryRepository) Authenticate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, token)
}

// Tokens returns the tokens handed to Authenticate so far.
func (s *StubRegistryRepository) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tokens...)
}

// Calls returns the identifiers looked up so far.
func (s *StubRegistryRepository) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
