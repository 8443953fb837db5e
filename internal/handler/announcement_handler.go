package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"uniadmin/internal/middleware"
	"uniadmin/internal/model"
	"uniadmin/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 100
)

type AnnouncementHandler struct {
	announcementRepo *repository.AnnouncementRepository
	debug            bool
}

func NewAnnouncementHandler(announcementRepo *repository.AnnouncementRepository, debug bool) *AnnouncementHandler {
	return &AnnouncementHandler{announcementRepo: announcementRepo, debug: debug}
}

type CreateAnnouncementRequest struct {
	Title        string  `json:"title" binding:"required"`
	Content      string  `json:"content" binding:"required"`
	ExternalLink *string `json:"external_link"`
	Status       string  `json:"status"`
}

type UpdateAnnouncementRequest struct {
	Title        string  `json:"title" binding:"required"`
	Content      string  `json:"content" binding:"required"`
	ExternalLink *string `json:"external_link"`
	Status       string  `json:"status"`
}

type AnnouncementResponse struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	ExternalLink  *string `json:"external_link,omitempty"`
	PublishedByID uint    `json:"published_by_id"`
	PublisherName string  `json:"publisher_name"`
	Status        string  `json:"status"`
	PublishedAt   string  `json:"published_at"`
}

// Create publishes an announcement on behalf of the authenticated super user.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if actor.Role != model.RoleSuperAdmin {
		fail(c, http.StatusForbidden, "Only administrators can publish announcements")
		return
	}

	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Title and content are required")
		return
	}
	status := req.Status
	if status == "" {
		status = model.AnnouncementPublished
	}
	if status != model.AnnouncementPublished && status != model.AnnouncementDraft {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	announcement := &model.Announcement{
		Title:         req.Title,
		Content:       req.Content,
		ExternalLink:  req.ExternalLink,
		PublishedByID: actor.ID,
		Status:        status,
	}
	if err := h.announcementRepo.Create(c.Request.Context(), announcement); err != nil {
		internalError(c, "Failed to create announcement", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         "Announcement created successfully",
		"announcement_id": announcement.ID,
	})
}

// ListPublished is the public feed: published announcements only.
func (h *AnnouncementHandler) ListPublished(c *gin.Context) {
	announcements, err := h.announcementRepo.ListPublished(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve announcements", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": announcementResponses(announcements)})
}

// ListAll includes drafts and is reserved for the admin panel.
func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	announcements, err := h.announcementRepo.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve announcements", err, h.debug)
		return
	}
	data := announcementResponses(announcements)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
}

// Recent returns the newest published announcements. The limit query
// parameter is clamped to [1, 100] and falls back to 5.
func (h *AnnouncementHandler) Recent(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	announcements, err := h.announcementRepo.Recent(c.Request.Context(), limit)
	if err != nil {
		internalError(c, "Failed to retrieve announcements", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": announcementResponses(announcements)})
}

func (h *AnnouncementHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	announcement, err := h.announcementRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			fail(c, http.StatusNotFound, "Announcement not found")
			return
		}
		internalError(c, "Failed to retrieve announcement", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": announcementResponse(*announcement)})
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"content":       req.Content,
		"external_link": req.ExternalLink,
	}
	if req.Status != "" {
		if req.Status != model.AnnouncementPublished && req.Status != model.AnnouncementDraft {
			fail(c, http.StatusBadRequest, "Invalid status")
			return
		}
		updates["status"] = req.Status
	}

	if err := h.announcementRepo.Update(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			fail(c, http.StatusNotFound, "Announcement not found")
			return
		}
		internalError(c, "Failed to update announcement", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement updated successfully"})
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.announcementRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			fail(c, http.StatusNotFound, "Announcement not found")
			return
		}
		internalError(c, "Failed to delete announcement", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement deleted successfully"})
}

func announcementResponse(a model.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		ExternalLink:  a.ExternalLink,
		PublishedByID: a.PublishedByID,
		PublisherName: a.Publisher.Username,
		Status:        a.Status,
		PublishedAt:   a.PublishedAt.Format(time.RFC3339),
	}
}

func announcementResponses(announcements []model.Announcement) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		out = append(out, announcementResponse(a))
	}
	return out
}
