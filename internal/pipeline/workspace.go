package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Workspace représente le répertoire de travail isolé d'un job
type Workspace struct {
	jobID string
	path  string
	log   zerolog.Logger
}

// NewWorkspace crée le répertoire <basePath>/<jobID>
func NewWorkspace(basePath, jobID string, log zerolog.Logger) (*Workspace, error) {
	if jobID == "" || strings.ContainsAny(jobID, `/\`) || strings.Contains(jobID, "..") {
		return nil, fmt.Errorf("invalid job id for workspace: %q", jobID)
	}

	if err := ensureBaseDirectory(basePath); err != nil {
		return nil, fmt.Errorf("failed to ensure base directory: %w", err)
	}

	workspacePath := filepath.Join(basePath, jobID)
	if err := os.MkdirAll(workspacePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	ws := &Workspace{
		jobID: jobID,
		path:  workspacePath,
		log:   log,
	}
	log.Debug().Str("job_id", jobID).Str("path", workspacePath).Msg("Created workspace")
	return ws, nil
}

// ensureBaseDirectory crée le répertoire de base et vérifie qu'il est inscriptible
func ensureBaseDirectory(basePath string) error {
	if info, err := os.Stat(basePath); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("base path %s exists but is not a directory", basePath)
		}
		if info.Mode().Perm()&0200 == 0 {
			return fmt.Errorf("base path %s is not writable", basePath)
		}
		return nil
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return fmt.Errorf("failed to create base directory %s: %w", basePath, err)
	}

	testFile := filepath.Join(basePath, ".permission_test")
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("base directory %s is not writable: %w", basePath, err)
	}
	f.Close()
	os.Remove(testFile)

	return nil
}

func (w *Workspace) GetPath() string {
	return w.path
}

// File retourne le chemin absolu d'un fichier du workspace
func (w *Workspace) File(name string) string {
	return filepath.Join(w.path, name)
}

func validRelative(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !filepath.IsAbs(name)
}

// WriteFile écrit un fichier dans le workspace
func (w *Workspace) WriteFile(filename string, reader io.Reader) error {
	if !validRelative(filename) {
		return fmt.Errorf("invalid filename: %s", filename)
	}

	filePath := filepath.Join(w.path, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", filePath, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file content to %s: %w", filePath, err)
	}
	return file.Close()
}

// FileExists vérifie qu'un fichier non vide existe dans le workspace
func (w *Workspace) FileExists(filename string) bool {
	size, err := w.GetFileSize(filename)
	return err == nil && size > 0
}

// GetFileSize retourne la taille d'un fichier
func (w *Workspace) GetFileSize(filename string) (int64, error) {
	if !validRelative(filename) {
		return 0, fmt.Errorf("invalid filename: %s", filename)
	}

	info, err := os.Stat(filepath.Join(w.path, filename))
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", filename)
	}
	return info.Size(), nil
}

// ListFiles liste les fichiers à la racine du workspace
func (w *Workspace) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", w.path, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// Cleanup supprime le workspace et tous ses fichiers
func (w *Workspace) Cleanup() error {
	if w.path == "" || w.path == "/" {
		return fmt.Errorf("invalid workspace path for cleanup: %s", w.path)
	}
	// Le chemin doit se terminer par l'ID du job
	if filepath.Base(w.path) != w.jobID {
		return fmt.Errorf("workspace path doesn't match job ID, refusing cleanup: %s", w.path)
	}

	w.log.Debug().Str("job_id", w.jobID).Str("path", w.path).Msg("Cleaning up workspace")

	if err := os.RemoveAll(w.path); err != nil {
		return fmt.Errorf("failed to cleanup workspace %s: %w", w.path, err)
	}
	return nil
}

// WorkspaceManager gère les workspaces laissés par des exécutions précédentes
type WorkspaceManager struct {
	basePath string
	log      zerolog.Logger
}

func NewWorkspaceManager(basePath string, log zerolog.Logger) (*WorkspaceManager, error) {
	if err := ensureBaseDirectory(basePath); err != nil {
		return nil, fmt.Errorf("failed to initialize workspace manager: %w", err)
	}
	return &WorkspaceManager{basePath: basePath, log: log}, nil
}

// CleanupOldWorkspaces supprime les workspaces de job modifiés avant cutoff.
// Seuls les répertoires nommés par un UUID sont concernés.
func (wm *WorkspaceManager) CleanupOldWorkspaces(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(wm.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read workspace directory: %w", err)
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		ws := &Workspace{jobID: entry.Name(), path: filepath.Join(wm.basePath, entry.Name()), log: wm.log}
		if err := ws.Cleanup(); err != nil {
			wm.log.Warn().Err(err).Str("job_id", entry.Name()).Msg("Failed to remove stale workspace")
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		wm.log.Info().Int("count", cleaned).Msg("Removed stale workspaces")
	}
	return cleaned, nil
}
