//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

// InMemoryFileSystemRepository implements repositories.FileSystemRepository over a map of paths.
type InMemoryFileSystemRepository struct {
	Files    map[string][]byte
	ReadErr  map[string]error
	WriteErr map[string]error
	ListErr  error

	mu     sync.Mutex
	writes []string
}

var _ repositories.FileSystemRepository = (*InMemoryFileSystemRepository)(nil)

// NewInMemoryFileSystemRepository creates a file system holding the given files.
func NewInMemoryFileSystemRepository(files map[string]string) *InMemoryFileSystemRepository {
	contents := make(map[string][]byte, len(files))
	for path, content := range files {
		contents[filepath.Clean(path)] = []byte(content)
	}
	return &InMemoryFileSystemRepository{Files: contents}
}

func (s *InMemoryFileSystemRepository) ReadFile(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = filepath.Clean(path)
	if err, ok := s.ReadErr[path]; ok {
		return nil, err
	}
	content, ok := s.Files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), content...), nil
}

func (s *InMemoryFileSystemRepository) WriteFile(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = filepath.Clean(path)
	if err, ok := s.WriteErr[path]; ok {
		return err
	}
	s.Files[path] = append([]byte(nil), data...)
	s.writes = append(s.writes, path)
	return nil
}

func (s *InMemoryFileSystemRepository) Exists(_ context.Context, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.Files[filepath.Clean(path)]
	return ok
}

func (s *InMemoryFileSystemRepository) ListFiles(
	_ context.Context,
	root, name string,
	excluded []string,
) ([]string, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root = filepath.Clean(root)
	var result []string
	for path := range s.Files {
		if filepath.Base(path) != name {
			continue
		}
		relative, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(relative, "..") {
			continue
		}
		segments := strings.Split(filepath.ToSlash(filepath.Dir(relative)), "/")
		if slices.ContainsFunc(segments, func(segment string) bool { return slices.Contains(excluded, segment) }) {
			continue
		}
		result = append(result, path)
	}
	sort.Strings(result)
	return result, nil
}

// Content returns the current content of a file as a string.
func (s *InMemoryFileSystemRepository) Content(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.Files[filepath.Clean(path)])
}

// Writes returns the paths written so far, in order.
func (s *InMemoryFileSystemRepository) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}
