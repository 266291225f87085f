package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const defaultFileMode = 0o644

// LocalFileSystemRepository implements repositories.FileSystemRepository on the OS disk.
type LocalFileSystemRepository struct{}

// NewLocalFileSystemRepository creates a new LocalFileSystemRepository.
func NewLocalFileSystemRepository() repositories.FileSystemRepository {
	return &LocalFileSystemRepository{}
}

func (r *LocalFileSystemRepository) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces the file content, keeping the permissions of an existing file.
func (r *LocalFileSystemRepository) WriteFile(_ context.Context, path string, data []byte) error {
	mode := fs.FileMode(defaultFileMode)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (r *LocalFileSystemRepository) Exists(_ context.Context, path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListFiles walks root in lexical order and returns the files matching
// "**/<name>" relative to it.
func (r *LocalFileSystemRepository) ListFiles(
	ctx context.Context,
	root, name string,
	excluded []string,
) ([]string, error) {
	skip := make(map[string]struct{}, len(excluded))
	for _, dir := range excluded {
		skip[dir] = struct{}{}
	}
	pattern := "**/" + name

	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) && path != root {
				return filepath.SkipDir
			}
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if entry.IsDir() {
			if _, ok := skip[entry.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		relative, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		matched, matchErr := doublestar.Match(pattern, filepath.ToSlash(relative))
		if matchErr != nil {
			return matchErr
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
