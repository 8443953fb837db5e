package handler

import (
	"net/http"
	"path/filepath"

	"uniadmin/internal/assets"
	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored uploads by filename, one route per category.
type FileHandler struct {
	store *storage.FileStore
}

func NewFileHandler(store *storage.FileStore) *FileHandler {
	return &FileHandler{store: store}
}

// ActivityImage serves a stored activity image; missing files are 404.
func (h *FileHandler) ActivityImage(c *gin.Context) {
	h.serve(c, storage.CategoryActivities)
}

// TaskAttachment serves a stored task attachment; missing files are 404.
func (h *FileHandler) TaskAttachment(c *gin.Context) {
	h.serve(c, storage.CategoryTasks)
}

// StaffPhoto serves a staff profile photo, falling back to the bundled
// default avatar when the photo is missing.
func (h *FileHandler) StaffPhoto(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	if h.store.Exists(storage.CategoryStaff, name) {
		c.File(h.store.Path(storage.CategoryStaff, name))
		return
	}
	c.Data(http.StatusOK, "image/png", assets.DefaultAvatar)
}

// Logo serves the current institution logo.
func (h *FileHandler) Logo(c *gin.Context) {
	name, _, ok := h.store.FindLogo()
	if !ok {
		fail(c, http.StatusNotFound, "Logo not found")
		return
	}
	c.File(h.store.Path(storage.CategoryLogos, name))
}

func (h *FileHandler) serve(c *gin.Context, category string) {
	name := filepath.Base(c.Param("filename"))
	if !h.store.Exists(category, name) {
		fail(c, http.StatusNotFound, "File not found")
		return
	}
	c.File(h.store.Path(category, name))
}
