package handler

import (
	"log"
	"net/http"
	"strings"

	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
)

type LogoHandler struct {
	store     *storage.FileStore
	publicURL string
	debug     bool
}

func NewLogoHandler(store *storage.FileStore, publicURL string, debug bool) *LogoHandler {
	return &LogoHandler{store: store, publicURL: publicURL, debug: debug}
}

// Upload replaces the institution logo. The stored name is fixed so there is
// never more than one logo on disk.
func (h *LogoHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		fail(c, http.StatusBadRequest, "No file received")
		return
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		fail(c, http.StatusBadRequest, "Only images are allowed")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		internalError(c, "Failed to upload logo", err, h.debug)
		return
	}
	defer src.Close()

	name, err := h.store.SaveLogo(fileHeader.Filename, src)
	if err != nil {
		internalError(c, "Failed to upload logo", err, h.debug)
		return
	}
	log.Printf("💾 Logo stored: %s", name)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Logo uploaded successfully",
		"filename": name,
	})
}

// Delete removes every stored logo variant.
func (h *LogoHandler) Delete(c *gin.Context) {
	deleted := h.store.DeleteLogo()
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Logo deleted",
		"deleted_count": deleted,
	})
}

// Check reports whether a logo is stored.
func (h *LogoHandler) Check(c *gin.Context) {
	name, size, ok := h.store.FindLogo()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "exists": false, "message": "No logo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"exists":   true,
		"filename": name,
		"size":     size,
		"url":      h.publicURL + "/api/logo/file",
	})
}
