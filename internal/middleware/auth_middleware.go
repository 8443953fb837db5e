package middleware

import (
	"net/http"
	"strings"

	"uniadmin/internal/auth"
	"uniadmin/internal/model"

	"github.com/gin-gonic/gin"
)

// Context keys set for authenticated requests.
const (
	ActorIDKey   = "actor_id"
	ActorRoleKey = "actor_role"
)

// JWTAuthMiddleware rejects requests without a valid Bearer token and puts
// the authenticated actor's tagged reference on the context. The secret must
// be the same one Login signs tokens with.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header format must be Bearer {token}"})
			return
		}

		actor, err := auth.ParseToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		c.Set(ActorIDKey, actor.ID)
		c.Set(ActorRoleKey, actor.Role)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor reference placed on the
// context by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (model.ActorRef, bool) {
	id, ok := c.Get(ActorIDKey)
	if !ok {
		return model.ActorRef{}, false
	}
	role, ok := c.Get(ActorRoleKey)
	if !ok {
		return model.ActorRef{}, false
	}
	actorID, ok := id.(uint)
	if !ok {
		return model.ActorRef{}, false
	}
	actorRole, ok := role.(model.Role)
	if !ok {
		return model.ActorRef{}, false
	}
	return model.ActorRef{ID: actorID, Role: actorRole}, true
}
