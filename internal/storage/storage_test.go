package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uniadmin/internal/storage"

	"github.com/stretchr/testify/assert"
)

func newStore(t *testing.T) *storage.FileStore {
	store, err := storage.NewFileStore(t.TempDir())
	assert.NoError(t, err)
	return store
}

func TestFileStore_CreatesCategoryDirectories(t *testing.T) {
	root := t.TempDir()
	_, err := storage.NewFileStore(root)
	assert.NoError(t, err)

	for _, category := range []string{
		storage.CategoryActivities,
		storage.CategoryStaff,
		storage.CategoryTasks,
		storage.CategoryLogos,
	} {
		info, err := os.Stat(filepath.Join(root, category))
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileStore_SaveAndServe(t *testing.T) {
	store := newStore(t)

	name, err := store.Save(storage.CategoryTasks, "tarea", "report.pdf", strings.NewReader("content"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "tarea-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.True(t, store.Exists(storage.CategoryTasks, name))

	data, err := os.ReadFile(store.Path(storage.CategoryTasks, name))
	assert.NoError(t, err)
	assert.Equal(t, "content", string(data))

	names, err := store.List(storage.CategoryTasks)
	assert.NoError(t, err)
	assert.Equal(t, []string{name}, names)
}

func TestFileStore_SaveGeneratesUniqueNames(t *testing.T) {
	store := newStore(t)

	first, err := store.Save(storage.CategoryActivities, "actividad", "photo.jpg", strings.NewReader("a"))
	assert.NoError(t, err)
	second, err := store.Save(storage.CategoryActivities, "actividad", "photo.jpg", strings.NewReader("b"))
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFileStore_Delete(t *testing.T) {
	store := newStore(t)

	name, err := store.Save(storage.CategoryStaff, "perfil", "photo.png", strings.NewReader("img"))
	assert.NoError(t, err)

	assert.True(t, store.Delete(storage.CategoryStaff, name))
	assert.False(t, store.Exists(storage.CategoryStaff, name))
	assert.False(t, store.Delete(storage.CategoryStaff, name))
}

func TestFileStore_LogoReplacement(t *testing.T) {
	store := newStore(t)

	first, err := store.SaveLogo("old-logo.png", strings.NewReader("old"))
	assert.NoError(t, err)
	second, err := store.SaveLogo("new-logo.jpg", strings.NewReader("new"))
	assert.NoError(t, err)

	// Only one logo file survives a replacement.
	assert.False(t, store.Exists(storage.CategoryLogos, first))
	name, size, ok := store.FindLogo()
	assert.True(t, ok)
	assert.Equal(t, second, name)
	assert.Equal(t, int64(3), size)
}

func TestFileStore_DeleteLogo(t *testing.T) {
	store := newStore(t)

	_, err := store.SaveLogo("logo.png", strings.NewReader("logo"))
	assert.NoError(t, err)

	assert.Equal(t, 1, store.DeleteLogo())
	_, _, ok := store.FindLogo()
	assert.False(t, ok)
	assert.Equal(t, 0, store.DeleteLogo())
}
