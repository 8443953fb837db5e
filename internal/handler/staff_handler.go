package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"uniadmin/internal/model"
	"uniadmin/internal/repository"
	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxPhotoSize = 2 << 20 // 2MB

type StaffHandler struct {
	actorRepo *repository.ActorRepository
	store     *storage.FileStore
	publicURL string
	debug     bool
}

func NewStaffHandler(actorRepo *repository.ActorRepository, store *storage.FileStore, publicURL string, debug bool) *StaffHandler {
	return &StaffHandler{actorRepo: actorRepo, store: store, publicURL: publicURL, debug: debug}
}

type StaffResponse struct {
	ID        uint    `json:"id"`
	FullName  string  `json:"full_name"`
	RoleTitle string  `json:"role_title"`
	UnitID    uint    `json:"unit_id"`
	UnitName  string  `json:"unit_name"`
	Email     string  `json:"email"`
	Photo     *string `json:"photo,omitempty"`
	PhotoURL  string  `json:"photo_url"`
}

func (h *StaffHandler) staffResponse(s model.StaffMember) StaffResponse {
	photoURL := h.publicURL + "/api/files/staff/default-avatar.png"
	if s.Photo != nil {
		photoURL = h.publicURL + "/api/files/staff/" + *s.Photo
	}
	return StaffResponse{
		ID:        s.ID,
		FullName:  s.FullName,
		RoleTitle: s.RoleTitle,
		UnitID:    s.UnitID,
		UnitName:  s.Unit.Name,
		Email:     s.Email,
		Photo:     s.Photo,
		PhotoURL:  photoURL,
	}
}

// List returns all staff members with photo URLs and with/without-photo
// counts in the metadata.
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.actorRepo.ListStaff(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve staff", err, h.debug)
		return
	}

	out := make([]StaffResponse, 0, len(staff))
	withPhoto := 0
	for _, s := range staff {
		if s.Photo != nil {
			withPhoto++
		}
		out = append(out, h.staffResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    out,
		"metadata": gin.H{
			"total":         len(out),
			"with_photo":    withPhoto,
			"without_photo": len(out) - withPhoto,
		},
	})
}

func (h *StaffHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	staff, err := h.actorRepo.GetStaffByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			fail(c, http.StatusNotFound, "Staff member not found")
			return
		}
		internalError(c, "Failed to retrieve staff member", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.staffResponse(*staff)})
}

// Create registers a staff member from a multipart form, with an optional
// profile photo that gets recompressed to a 300x300 JPEG.
func (h *StaffHandler) Create(c *gin.Context) {
	fullName := c.PostForm("full_name")
	roleTitle := c.PostForm("role_title")
	unitIDStr := c.PostForm("unit_id")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if fullName == "" || roleTitle == "" || unitIDStr == "" || email == "" || password == "" {
		fail(c, http.StatusBadRequest, "All fields are required")
		return
	}
	unitID, err := strconv.ParseUint(unitIDStr, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid unit_id format")
		return
	}

	photoName, ok := h.savePhoto(c)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.cleanupPhoto(photoName)
		internalError(c, "Failed to create staff member", err, h.debug)
		return
	}

	staff := &model.StaffMember{
		FullName:       fullName,
		RoleTitle:      roleTitle,
		UnitID:         uint(unitID),
		Email:          strings.ToLower(email),
		HashedPassword: string(hash),
		Photo:          photoName,
	}
	if err := h.actorRepo.CreateStaff(c.Request.Context(), staff); err != nil {
		h.cleanupPhoto(photoName)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, http.StatusBadRequest, "Email is already registered")
			return
		}
		internalError(c, "Failed to create staff member", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Staff member created successfully",
		"staff_id":  staff.ID,
		"has_photo": photoName != nil,
	})
}

// Update edits a staff member. A newly uploaded photo replaces and removes
// the previous one; the password changes only when supplied non-blank.
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fullName := c.PostForm("full_name")
	roleTitle := c.PostForm("role_title")
	unitIDStr := c.PostForm("unit_id")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if fullName == "" || roleTitle == "" || unitIDStr == "" || email == "" {
		fail(c, http.StatusBadRequest, "Name, role, unit and email are required")
		return
	}
	unitID, err := strconv.ParseUint(unitIDStr, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid unit_id format")
		return
	}

	current, err := h.actorRepo.GetStaffByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			fail(c, http.StatusNotFound, "Staff member not found")
			return
		}
		internalError(c, "Failed to update staff member", err, h.debug)
		return
	}

	photoName, ok := h.savePhoto(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"full_name":  fullName,
		"role_title": roleTitle,
		"unit_id":    uint(unitID),
		"email":      strings.ToLower(email),
	}
	if photoName != nil {
		// Old photo goes away once the new one is stored.
		if current.Photo != nil {
			h.store.Delete(storage.CategoryStaff, *current.Photo)
		}
		updates["photo"] = *photoName
	}
	if strings.TrimSpace(password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			h.cleanupPhoto(photoName)
			internalError(c, "Failed to update staff member", err, h.debug)
			return
		}
		updates["password"] = string(hash)
	}

	if err := h.actorRepo.UpdateStaff(c.Request.Context(), id, updates); err != nil {
		h.cleanupPhoto(photoName)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, http.StatusBadRequest, "Email is already registered")
			return
		}
		internalError(c, "Failed to update staff member", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff member updated successfully"})
}

// Delete removes a staff member and their stored photo.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	staff, err := h.actorRepo.GetStaffByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			fail(c, http.StatusNotFound, "Staff member not found")
			return
		}
		internalError(c, "Failed to delete staff member", err, h.debug)
		return
	}

	if staff.Photo != nil {
		h.store.Delete(storage.CategoryStaff, *staff.Photo)
	}

	if err := h.actorRepo.DeleteStaff(c.Request.Context(), id); err != nil {
		internalError(c, "Failed to delete staff member", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff member deleted successfully"})
}

// savePhoto stores an optional "photo" form file, recompressed. The second
// return value is false when the request was already answered with an error.
func (h *StaffHandler) savePhoto(c *gin.Context) (*string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, true // no photo supplied
	}
	if fileHeader.Size > maxPhotoSize {
		fail(c, http.StatusBadRequest, "Photo exceeds the 2MB limit")
		return nil, false
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		fail(c, http.StatusBadRequest, "Only images are allowed")
		return nil, false
	}

	name, err := saveUpload(h.store, storage.CategoryStaff, "personal", fileHeader)
	if err != nil {
		internalError(c, "Failed to store photo", err, h.debug)
		return nil, false
	}

	compressed := h.store.CompressProfilePhoto(name)
	return &compressed, true
}

func (h *StaffHandler) cleanupPhoto(name *string) {
	if name != nil {
		h.store.Delete(storage.CategoryStaff, *name)
	}
}

// saveUpload streams one multipart file into the store.
func saveUpload(store *storage.FileStore, category, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	name, err := store.Save(category, prefix, fileHeader.Filename, src)
	if err != nil {
		return "", err
	}
	log.Printf("📸 Stored upload %s", name)
	return name, nil
}
