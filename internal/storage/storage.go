package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload categories, each backed by its own directory under the store root.
const (
	CategoryActivities = "activities"
	CategoryStaff      = "staff"
	CategoryTasks      = "tasks"
	CategoryLogos      = "logos"
)

// logoBaseName is fixed so a new upload always replaces the previous logo.
const logoBaseName = "institution-logo"

// FileStore keeps uploaded binaries on the local filesystem, addressed by
// generated filenames. Deletion is best-effort by contract: callers that must
// not fail on a missing file check the boolean result instead of an error.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{CategoryActivities, CategoryStaff, CategoryTasks, CategoryLogos} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &FileStore{root: root}, nil
}

// Save writes src under category with a generated collision-free name of the
// form <prefix>-<timestamp>-<random><ext> and returns the stored name.
func (s *FileStore) Save(category, prefix, originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	dst, err := os.Create(s.Path(category, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(s.Path(category, name))
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Path returns the on-disk location of a stored file.
func (s *FileStore) Path(category, name string) string {
	return filepath.Join(s.root, category, filepath.Base(name))
}

func (s *FileStore) Exists(category, name string) bool {
	_, err := os.Stat(s.Path(category, name))
	return err == nil
}

// Delete removes a stored file and reports whether a file was removed.
func (s *FileStore) Delete(category, name string) bool {
	return os.Remove(s.Path(category, name)) == nil
}

// List returns the names of all files stored under category.
func (s *FileStore) List(category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, category))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// SaveLogo stores the institution logo under its fixed name, removing any
// previously stored variant first.
func (s *FileStore) SaveLogo(originalName string, src io.Reader) (string, error) {
	s.DeleteLogo()

	name := logoBaseName + strings.ToLower(filepath.Ext(originalName))
	dst, err := os.Create(s.Path(CategoryLogos, name))
	if err != nil {
		return "", fmt.Errorf("create logo: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(s.Path(CategoryLogos, name))
		return "", fmt.Errorf("write logo: %w", err)
	}
	return name, nil
}

// DeleteLogo removes every stored logo variant and returns how many files
// were deleted.
func (s *FileStore) DeleteLogo() int {
	names, err := s.List(CategoryLogos)
	if err != nil {
		return 0
	}
	deleted := 0
	for _, name := range names {
		if strings.HasPrefix(name, logoBaseName) && s.Delete(CategoryLogos, name) {
			deleted++
		}
	}
	return deleted
}

// FindLogo reports the current logo file, if one is stored.
func (s *FileStore) FindLogo() (string, int64, bool) {
	names, err := s.List(CategoryLogos)
	if err != nil {
		return "", 0, false
	}
	for _, name := range names {
		if strings.HasPrefix(name, logoBaseName) {
			info, err := os.Stat(s.Path(CategoryLogos, name))
			if err != nil {
				continue
			}
			return name, info.Size(), true
		}
	}
	return "", 0, false
}
