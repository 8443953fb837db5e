package handler

import (
	"errors"
	"net/http"
	"strings"

	"uniadmin/internal/model"
	"uniadmin/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type DirectorHandler struct {
	actorRepo *repository.ActorRepository
	debug     bool
}

func NewDirectorHandler(actorRepo *repository.ActorRepository, debug bool) *DirectorHandler {
	return &DirectorHandler{actorRepo: actorRepo, debug: debug}
}

type CreateDirectorRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Position string `json:"position" binding:"required"`
	UnitID   uint   `json:"unit_id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateDirectorRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Position string `json:"position" binding:"required"`
	UnitID   uint   `json:"unit_id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

type DirectorResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	UnitID   uint   `json:"unit_id"`
	UnitName string `json:"unit_name"`
	Email    string `json:"email"`
}

func directorResponse(d model.Director) DirectorResponse {
	return DirectorResponse{
		ID:       d.ID,
		FullName: d.FullName,
		Position: d.Position,
		UnitID:   d.UnitID,
		UnitName: d.Unit.Name,
		Email:    d.Email,
	}
}

func (h *DirectorHandler) List(c *gin.Context) {
	directors, err := h.actorRepo.ListDirectors(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve directors", err, h.debug)
		return
	}

	out := make([]DirectorResponse, 0, len(directors))
	for _, d := range directors {
		out = append(out, directorResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func (h *DirectorHandler) Create(c *gin.Context) {
	var req CreateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, "Failed to create director", err, h.debug)
		return
	}

	director := &model.Director{
		FullName:       req.FullName,
		Position:       req.Position,
		UnitID:         req.UnitID,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hash),
	}
	if err := h.actorRepo.CreateDirector(c.Request.Context(), director); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, http.StatusBadRequest, "Email is already registered")
			return
		}
		internalError(c, "Failed to create director", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Director created successfully",
		"director_id": director.ID,
	})
}

// Update edits a director; the password changes only when a non-blank one is
// supplied.
func (h *DirectorHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Name, position, unit and email are required")
		return
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"position":  req.Position,
		"unit_id":   req.UnitID,
		"email":     strings.ToLower(req.Email),
	}
	if strings.TrimSpace(req.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(c, "Failed to update director", err, h.debug)
			return
		}
		updates["password"] = string(hash)
	}

	if err := h.actorRepo.UpdateDirector(c.Request.Context(), id, updates); err != nil {
		switch {
		case errors.Is(err, repository.ErrDirectorNotFound):
			fail(c, http.StatusNotFound, "Director not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			fail(c, http.StatusBadRequest, "Email is already registered")
		default:
			internalError(c, "Failed to update director", err, h.debug)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Director updated successfully"})
}

func (h *DirectorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.actorRepo.DeleteDirector(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			fail(c, http.StatusNotFound, "Director not found")
			return
		}
		internalError(c, "Failed to delete director", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Director deleted successfully"})
}
