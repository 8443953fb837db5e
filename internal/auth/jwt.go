package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"uniadmin/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a token carrying the actor's tagged reference with the
// given secret. Expiry defaults to 24 hours; JWT_EXPIRY_HOURS overrides it.
func GenerateToken(actorID uint, role model.Role, secret string) (string, error) {
	expiryHours, _ := strconv.Atoi(os.Getenv("JWT_EXPIRY_HOURS"))
	if expiryHours <= 0 {
		expiryHours = 24
	}
	claims := jwt.MapClaims{
		"actor_id":   actorID,
		"actor_role": string(role),
		"exp":        time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry against the given secret and
// rebuilds the actor reference from the claims.
func ParseToken(tokenStr, secret string) (model.ActorRef, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return model.ActorRef{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["actor_id"] == nil || claims["actor_role"] == nil {
		return model.ActorRef{}, errors.New("invalid claims")
	}

	id, ok := claims["actor_id"].(float64)
	if !ok {
		return model.ActorRef{}, errors.New("invalid claims")
	}
	roleStr, ok := claims["actor_role"].(string)
	if !ok {
		return model.ActorRef{}, errors.New("invalid claims")
	}
	role := model.Role(roleStr)
	if !role.Valid() {
		return model.ActorRef{}, errors.New("invalid claims")
	}

	return model.ActorRef{ID: uint(id), Role: role}, nil
}
