package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

type filesystemStorage struct {
	basePath string
}

// NewFilesystemStorage crée une nouvelle instance de storage filesystem
func NewFilesystemStorage(basePath string) (storage.Storage, error) {
	basePath = filepath.Clean(basePath)
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", basePath, err)
	}

	return &filesystemStorage{
		basePath: basePath,
	}, nil
}

// resolve maps a storage key to a path under basePath, refusing escapes.
func (s *filesystemStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return filepath.Join(s.basePath, clean), nil
}

func (s *filesystemStorage) Upload(ctx context.Context, path string, data io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", fullPath, err)
	}

	// Écriture dans un fichier temporaire puis rename pour ne jamais exposer un fichier partiel
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data to %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", fullPath, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move data to %s: %w", fullPath, err)
	}

	return nil
}

func (s *filesystemStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", fullPath, err)
	}

	return file, nil
}

func (s *filesystemStorage) Exists(ctx context.Context, path string) (bool, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence %s: %w", fullPath, err)
	}

	return !info.IsDir(), nil
}

func (s *filesystemStorage) Delete(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	// Supprime les répertoires devenus vides jusqu'à basePath
	for dir := filepath.Dir(fullPath); dir != s.basePath && strings.HasPrefix(dir, s.basePath); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}

	return nil
}

// List returns slash-separated keys starting with prefix.
func (s *filesystemStorage) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimPrefix(filepath.ToSlash(prefix), "/")

	// On ne parcourt que le répertoire le plus profond couvert par le préfixe
	root := s.basePath
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		dir, err := s.resolve(prefix[:i])
		if err != nil {
			return nil, err
		}
		root = dir
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}

		relPath, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relPath)
		if strings.HasPrefix(key, prefix) {
			files = append(files, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files with prefix %s: %w", prefix, err)
	}

	return files, nil
}

func (s *filesystemStorage) GetURL(ctx context.Context, path string) (string, error) {
	// Pas d'URL publique pour le filesystem, on retourne la clé
	return path, nil
}
