package colguide

import (
	"os"
	"path/filepath"
)

// FileSystemInterface abstracts the file operations the settings store
// needs. The library provides a default implementation for local files.
type FileSystemInterface interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	MkdirAll(path string) error
}

// localFileSystem implements FileSystemInterface for local files.
type localFileSystem struct{}

func (fs *localFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes through a temporary sibling and renames it into place.
func (fs *localFileSystem) WriteFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, name)
}

func (fs *localFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// LocalFileSystem returns the default local file system.
func LocalFileSystem() FileSystemInterface {
	return &localFileSystem{}
}
