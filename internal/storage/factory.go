package storage

import (
	"fmt"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/storage/filesystem"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/storage/garage"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/storage/minio"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

// NewStorage crée une nouvelle instance de storage basée sur la configuration
func NewStorage(config *storage.StorageConfig) (storage.Storage, error) {
	switch config.Type {
	case "filesystem", "":
		return filesystem.NewFilesystemStorage(config.BasePath)
	case "garage":
		return garage.NewGarageStorage(config)
	case "minio":
		return minio.NewMinioStorage(config)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Type)
	}
}
