package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"uniadmin/internal/middleware"
	"uniadmin/internal/model"
	"uniadmin/internal/repository"
	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	maxActivityImages    = 5
	maxActivityImageSize = 5 << 20 // 5MB per image
)

// systemActorName labels creators whose account no longer exists.
const systemActorName = "Sistema"

type ActivityHandler struct {
	activityRepo *repository.ActivityRepository
	actorRepo    *repository.ActorRepository
	store        *storage.FileStore
	publicURL    string
	debug        bool
}

func NewActivityHandler(
	activityRepo *repository.ActivityRepository,
	actorRepo *repository.ActorRepository,
	store *storage.FileStore,
	publicURL string,
	debug bool,
) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
		actorRepo:    actorRepo,
		store:        store,
		publicURL:    publicURL,
		debug:        debug,
	}
}

type ActivityImageResponse struct {
	ID           uint   `json:"id"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type ActivityResponse struct {
	ID            uint                    `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description,omitempty"`
	ActivityType  string                  `json:"activity_type"`
	StartDate     string                  `json:"start_date"`
	EndDate       *string                 `json:"end_date,omitempty"`
	UnitID        uint                    `json:"unit_id"`
	UnitName      string                  `json:"unit_name"`
	CreatedBy     model.ActorRef          `json:"created_by"`
	CreatedByName string                  `json:"created_by_name"`
	Status        string                  `json:"status"`
	CreatedAt     string                  `json:"created_at"`
	Images        []ActivityImageResponse `json:"images"`
}

// Create registers an activity with up to five attached images. Validation
// runs before any file is stored; stored files are removed again when the
// datastore write fails.
func (h *ActivityHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	title := c.PostForm("title")
	activityType := c.PostForm("activity_type")
	startDateStr := c.PostForm("start_date")
	unitIDStr := c.PostForm("unit_id")

	if title == "" || activityType == "" || startDateStr == "" || unitIDStr == "" {
		fail(c, http.StatusBadRequest, "Title, activity type, start date and unit are required")
		return
	}

	unitID, err := strconv.ParseUint(unitIDStr, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid unit_id format")
		return
	}
	startDate, err := parseDate(startDateStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid start_date format")
		return
	}

	var endDate *time.Time
	if endStr := c.PostForm("end_date"); endStr != "" {
		parsed, err := parseDate(endStr)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid end_date format")
			return
		}
		if parsed.Before(startDate) {
			fail(c, http.StatusBadRequest, "End date cannot be before the start date")
			return
		}
		endDate = &parsed
	}

	files, ok := h.collectImages(c)
	if !ok {
		return
	}

	uploads, err := storeUploads(h.store, storage.CategoryActivities, "actividad", files)
	if err != nil {
		internalError(c, "Failed to store images", err, h.debug)
		return
	}
	images := make([]model.ActivityImage, 0, len(uploads))
	for _, u := range uploads {
		images = append(images, model.ActivityImage{
			OriginalName: u.OriginalName,
			StoredName:   u.StoredName,
			MimeType:     u.MimeType,
			Size:         u.Size,
			UploadedAt:   time.Now(),
		})
	}

	activity := &model.Activity{
		Title:         title,
		Description:   c.PostForm("description"),
		ActivityType:  activityType,
		StartDate:     startDate,
		EndDate:       endDate,
		UnitID:        uint(unitID),
		CreatedByID:   actor.ID,
		CreatedByRole: actor.Role,
		Status:        model.ActivityPending,
	}
	if err := h.activityRepo.Create(c.Request.Context(), activity, images); err != nil {
		h.removeStored(uploads)
		internalError(c, "Failed to create activity", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Activity created successfully",
		"activity_id": activity.ID,
		"image_count": len(images),
	})
}

// ListByUnit returns a unit's activities with images and creator names.
func (h *ActivityHandler) ListByUnit(c *gin.Context) {
	unitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	activities, err := h.activityRepo.ListByUnit(c.Request.Context(), unitID)
	if err != nil {
		internalError(c, "Failed to retrieve activities", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.activityResponses(c, activities)})
}

// ListAll returns every activity in the system.
func (h *ActivityHandler) ListAll(c *gin.Context) {
	activities, err := h.activityRepo.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve activities", err, h.debug)
		return
	}

	data := h.activityResponses(c, activities)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      data,
		"total":     len(data),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type UpdateActivityStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ActivityHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateActivityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status is required")
		return
	}

	if err := h.activityRepo.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			fail(c, http.StatusNotFound, "Activity not found")
			return
		}
		internalError(c, "Failed to update status", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated"})
}

// Delete removes an activity: image files first, then image rows, then the
// activity row.
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	activity, err := h.activityRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			fail(c, http.StatusNotFound, "Activity not found")
			return
		}
		internalError(c, "Failed to delete activity", err, h.debug)
		return
	}

	deletedFiles := 0
	for _, img := range activity.Images {
		if h.store.Delete(storage.CategoryActivities, img.StoredName) {
			deletedFiles++
		} else {
			log.Printf("⚠️  Could not delete activity image %s", img.StoredName)
		}
	}

	if err := h.activityRepo.Delete(c.Request.Context(), id); err != nil {
		internalError(c, "Failed to delete activity", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Activity deleted successfully",
		"activity_id":    id,
		"title":          activity.Title,
		"deleted_images": deletedFiles,
	})
}

func (h *ActivityHandler) activityResponses(c *gin.Context, activities []model.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		name, err := h.actorRepo.DisplayName(c.Request.Context(), model.ActorRef{ID: a.CreatedByID, Role: a.CreatedByRole})
		if err != nil || name == "" {
			name = systemActorName
		}

		images := make([]ActivityImageResponse, 0, len(a.Images))
		for _, img := range a.Images {
			images = append(images, ActivityImageResponse{
				ID:           img.ID,
				OriginalName: img.OriginalName,
				StoredName:   img.StoredName,
				MimeType:     img.MimeType,
				Size:         img.Size,
				URL:          h.publicURL + "/api/files/activities/" + img.StoredName,
			})
		}

		resp := ActivityResponse{
			ID:            a.ID,
			Title:         a.Title,
			Description:   a.Description,
			ActivityType:  a.ActivityType,
			StartDate:     a.StartDate.Format("2006-01-02"),
			UnitID:        a.UnitID,
			UnitName:      a.Unit.Name,
			CreatedBy:     model.ActorRef{ID: a.CreatedByID, Role: a.CreatedByRole},
			CreatedByName: name,
			Status:        a.Status,
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
			Images:        images,
		}
		if a.EndDate != nil {
			end := a.EndDate.Format("2006-01-02")
			resp.EndDate = &end
		}
		out = append(out, resp)
	}
	return out
}

// collectImages validates the uploaded image set without storing anything.
func (h *ActivityHandler) collectImages(c *gin.Context) ([]*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, true // no multipart body, no images
	}
	files := form.File["images"]
	if len(files) > maxActivityImages {
		fail(c, http.StatusBadRequest, "At most 5 images are allowed")
		return nil, false
	}
	for _, f := range files {
		if f.Size > maxActivityImageSize {
			fail(c, http.StatusBadRequest, "Image "+f.Filename+" exceeds the 5MB limit")
			return nil, false
		}
		if !strings.HasPrefix(f.Header.Get("Content-Type"), "image/") {
			fail(c, http.StatusBadRequest, "Only images are allowed")
			return nil, false
		}
	}
	return files, true
}

func (h *ActivityHandler) removeStored(uploads []storedUpload) {
	for _, u := range uploads {
		h.store.Delete(storage.CategoryActivities, u.StoredName)
	}
}

// parseDate accepts plain dates and RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
