// Package ports defines the interfaces between framereel stages and the
// adapters that touch the file system, images, encoders and logs.
package ports

import "errors"

// ErrNotFound is returned (possibly wrapped) by FileSystem.ListDir and Size
// when the path does not exist. An existing but empty directory is not an error.
var ErrNotFound = errors.New("not found")

// DirEntry is a single directory listing entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories if necessary.
	WriteFile(path string, data []byte) error

	// ListDir returns the entries of a directory sorted by name.
	ListDir(path string) ([]DirEntry, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// Size returns the size of a file in bytes.
	Size(path string) (int64, error)
}
