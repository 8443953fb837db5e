package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"uniadmin/internal/auth"
	"uniadmin/internal/model"
	"uniadmin/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	actorRepo *repository.ActorRepository
	resolver  *auth.Resolver
	jwtSecret string
	debug     bool
}

func NewAuthHandler(actorRepo *repository.ActorRepository, resolver *auth.Resolver, jwtSecret string, debug bool) *AuthHandler {
	return &AuthHandler{actorRepo: actorRepo, resolver: resolver, jwtSecret: jwtSecret, debug: debug}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginUser struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Position string     `json:"position,omitempty"`
	UnitID   *uint      `json:"unit_id,omitempty"`
	UnitName string     `json:"unit_name,omitempty"`
	Photo    *string    `json:"photo,omitempty"`
}

// Login authenticates against the three account tables in order. The error
// is the same whether the email is unknown or the password is wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	account, err := h.resolver.Resolve(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("❌ Login failed for %s: %v", req.Email, err)
		internalError(c, "Login failed", err, h.debug)
		return
	}

	token, err := auth.GenerateToken(account.Ref.ID, account.Ref.Role, h.jwtSecret)
	if err != nil {
		internalError(c, "Login failed", err, h.debug)
		return
	}

	log.Printf("✅ Login successful for %s (%s)", account.Email, account.Ref.Role)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": LoginUser{
			ID:       account.Ref.ID,
			Name:     account.Name,
			Email:    account.Email,
			Role:     account.Ref.Role,
			Position: account.Position,
			UnitID:   account.UnitID,
			UnitName: account.UnitName,
			Photo:    account.Photo,
		},
	})
}

type CreateSuperUserRequest struct {
	Username string `json:"username" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateSuperUser registers a new super user account.
func (h *AuthHandler) CreateSuperUser(c *gin.Context) {
	var req CreateSuperUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, "Failed to create user", err, h.debug)
		return
	}

	user := &model.SuperUser{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hash),
	}
	if err := h.actorRepo.CreateSuperUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, http.StatusBadRequest, "Username or email already exists")
			return
		}
		internalError(c, "Failed to create user", err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Super user created successfully",
		"user_id": user.ID,
	})
}

type SuperUserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ListSuperUsers returns all super user accounts without password hashes.
func (h *AuthHandler) ListSuperUsers(c *gin.Context) {
	users, err := h.actorRepo.ListSuperUsers(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve users", err, h.debug)
		return
	}

	out := make([]SuperUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, SuperUserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}
