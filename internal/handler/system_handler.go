package handler

import (
	"net/http"
	"time"

	"uniadmin/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemHandler struct {
	db               *gorm.DB
	actorRepo        *repository.ActorRepository
	unitRepo         *repository.UnitRepository
	announcementRepo *repository.AnnouncementRepository
	debug            bool
}

func NewSystemHandler(
	db *gorm.DB,
	actorRepo *repository.ActorRepository,
	unitRepo *repository.UnitRepository,
	announcementRepo *repository.AnnouncementRepository,
	debug bool,
) *SystemHandler {
	return &SystemHandler{
		db:               db,
		actorRepo:        actorRepo,
		unitRepo:         unitRepo,
		announcementRepo: announcementRepo,
		debug:            debug,
	}
}

// Health pings the database and reports service status.
func (h *SystemHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database connection error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API running correctly",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats returns basic entity counts.
func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	superUsers, err := h.actorRepo.CountSuperUsers(ctx)
	if err != nil {
		internalError(c, "Failed to retrieve statistics", err, h.debug)
		return
	}
	units, err := h.unitRepo.Count(ctx)
	if err != nil {
		internalError(c, "Failed to retrieve statistics", err, h.debug)
		return
	}
	directors, err := h.actorRepo.CountDirectors(ctx)
	if err != nil {
		internalError(c, "Failed to retrieve statistics", err, h.debug)
		return
	}
	staff, err := h.actorRepo.CountStaff(ctx)
	if err != nil {
		internalError(c, "Failed to retrieve statistics", err, h.debug)
		return
	}
	announcements, err := h.announcementRepo.CountPublished(ctx)
	if err != nil {
		internalError(c, "Failed to retrieve statistics", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"super_users":   superUsers,
			"units":         units,
			"directors":     directors,
			"staff":         staff,
			"announcements": announcements,
		},
	})
}
