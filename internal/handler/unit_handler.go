package handler

import (
	"errors"
	"net/http"

	"uniadmin/internal/model"
	"uniadmin/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UnitHandler struct {
	unitRepo *repository.UnitRepository
	debug    bool
}

func NewUnitHandler(unitRepo *repository.UnitRepository, debug bool) *UnitHandler {
	return &UnitHandler{unitRepo: unitRepo, debug: debug}
}

type CreateUnitRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.unitRepo.List(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve units", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": units})
}

func (h *UnitHandler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Name is required")
		return
	}

	unit := &model.OrgUnit{Name: req.Name}
	if err := h.unitRepo.Create(c.Request.Context(), unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, http.StatusBadRequest, "This unit already exists")
			return
		}
		internalError(c, "Failed to create unit", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Unit created successfully",
		"unit_id": unit.ID,
	})
}
