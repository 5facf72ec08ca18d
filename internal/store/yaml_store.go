package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	yamlExtension   = ".yml"
	backupExtension = ".bak"
)

// FileBackend keeps every document in <dir>/<name>.yml and its backup in
// <dir>/<name>.yml.bak.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// NewYAMLStore stores YAML files in dir.
func NewYAMLStore(dir string) *DocumentStore {
	return NewDocumentStore(NewFileBackend(dir), YAMLCodec{})
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+yamlExtension)
}

func (b *FileBackend) Read(_ context.Context, name string) (Document, error) {
	path := b.path(name)
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, ErrNoDocument
	}
	if err != nil {
		return Document{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	backup, err := os.ReadFile(path + backupExtension)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Document{}, fmt.Errorf("os.ReadFile(%s) > %w", path+backupExtension, err)
	}
	return Document{Body: body, Backup: backup}, nil
}

func (b *FileBackend) Write(_ context.Context, name string, body []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", b.dir, err)
	}

	path := b.path(name)
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := os.WriteFile(path+backupExtension, current, 0o644); err != nil {
			return fmt.Errorf("os.WriteFile(%s) > %w", path+backupExtension, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return writeFileAtomic(path, body)
}

func (b *FileBackend) Restore(_ context.Context, name string) error {
	path := b.path(name)
	backup, err := os.ReadFile(path + backupExtension)
	if err != nil {
		return fmt.Errorf("os.ReadFile(%s) > %w", path+backupExtension, err)
	}
	return writeFileAtomic(path, backup)
}

func (b *FileBackend) Close() error {
	return nil
}

// writeFileAtomic replaces path so that readers see the old or the new content, never a mix.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp() > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write() > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
