package repositories

import "context"

// FileSystemRepository is the only way commands touch the disk.
type FileSystemRepository interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) bool

	// ListFiles returns every file below root whose base name is name, never
	// descending into a directory named in excluded.
	ListFiles(ctx context.Context, root, name string, excluded []string) ([]string, error)
}
