package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Download when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Storage définit l'interface pour le stockage des artefacts
type Storage interface {
	// Upload un fichier vers le storage
	Upload(ctx context.Context, path string, data io.Reader) error

	// Download ouvre un fichier du storage, l'appelant doit le fermer
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists vérifie si un fichier existe
	Exists(ctx context.Context, path string) (bool, error)

	// Delete supprime un fichier, absent n'est pas une erreur
	Delete(ctx context.Context, path string) error

	// List liste les fichiers avec un préfixe donné
	List(ctx context.Context, prefix string) ([]string, error)

	// GetURL retourne l'URL d'accès à un fichier
	GetURL(ctx context.Context, path string) (string, error)
}

// StorageConfig contient la configuration du storage
type StorageConfig struct {
	Type      string // "filesystem", "garage" ou "minio"
	BasePath  string // Pour filesystem
	Endpoint  string // Pour S3/Garage/MinIO
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool // MinIO seulement, Garage lit le schéma de l'endpoint
}
