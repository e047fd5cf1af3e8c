package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

// outputsPrefix est la racine des artefacts publiés
const outputsPrefix = "outputs"

// ArtifactStorage is the part of StorageService the pipeline and the API depend on.
type ArtifactStorage interface {
	UploadArtifact(ctx context.Context, jobID, name string, content io.Reader) (string, error)
	UploadArtifactFile(ctx context.Context, jobID, name, localPath string) (string, error)
	OpenArtifact(ctx context.Context, key string) (io.ReadCloser, error)
	ArtifactExists(ctx context.Context, key string) (bool, error)
	ListArtifacts(ctx context.Context, jobID string) ([]string, error)
	DeleteJobArtifacts(ctx context.Context, jobID string) error
}

type StorageService struct {
	storage storage.Storage
	logger  zerolog.Logger
}

func NewStorageService(storage storage.Storage, logger zerolog.Logger) *StorageService {
	return &StorageService{
		storage: storage,
		logger:  logger.With().Str("component", "storage").Logger(),
	}
}

// ArtifactKey returns the storage key of an artifact: outputs/<job_id>/<name>.
func ArtifactKey(jobID, name string) string {
	return path.Join(outputsPrefix, jobID, name)
}

// UploadArtifact publie un artefact et retourne sa clé de stockage
func (s *StorageService) UploadArtifact(ctx context.Context, jobID, name string, content io.Reader) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	key := ArtifactKey(jobID, name)
	if err := s.storage.Upload(ctx, key, content); err != nil {
		return "", fmt.Errorf("failed to upload artifact %s: %w", name, err)
	}
	s.logger.Debug().Str("job_id", jobID).Str("key", key).Msg("artifact uploaded")
	return key, nil
}

// UploadArtifactFile publie un fichier du workspace
func (s *StorageService) UploadArtifactFile(ctx context.Context, jobID, name, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact %s: %w", localPath, err)
	}
	defer file.Close()

	return s.UploadArtifact(ctx, jobID, name, file)
}

// OpenArtifact ouvre un artefact par sa clé, storage.ErrNotFound si absent
func (s *StorageService) OpenArtifact(ctx context.Context, key string) (io.ReadCloser, error) {
	if !strings.HasPrefix(key, outputsPrefix+"/") {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return s.storage.Download(ctx, key)
}

func (s *StorageService) ArtifactExists(ctx context.Context, key string) (bool, error) {
	if !strings.HasPrefix(key, outputsPrefix+"/") {
		return false, nil
	}
	return s.storage.Exists(ctx, key)
}

// ListArtifacts liste les noms des artefacts d'un job
func (s *StorageService) ListArtifacts(ctx context.Context, jobID string) ([]string, error) {
	prefix := ArtifactKey(jobID, "") + "/"
	files, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, file := range files {
		if name, ok := strings.CutPrefix(file, prefix); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// DeleteJobArtifacts supprime tous les artefacts d'un job
func (s *StorageService) DeleteJobArtifacts(ctx context.Context, jobID string) error {
	names, err := s.ListArtifacts(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to list artifacts of job %s: %w", jobID, err)
	}

	var errs []error
	for _, name := range names {
		if err := s.storage.Delete(ctx, ArtifactKey(jobID, name)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete artifacts of job %s: %w", jobID, errors.Join(errs...))
	}

	s.logger.Debug().Str("job_id", jobID).Int("count", len(names)).Msg("artifacts deleted")
	return nil
}

// validateName refuse les chemins qui sortiraient du répertoire du job
func validateName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name: %q", name)
	}
	return nil
}
