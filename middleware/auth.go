package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const UserContextKey = "userID"

// GuestTokenHeader carries the client-held token for guest wishlists.
const GuestTokenHeader = "X-Guest-Token"

// AuthMiddleware resolves the user identity from a bearer token, falling back
// to the X-User-ID header set by the API gateway.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		userID := userFromBearer(c, secret)
		if userID == "" {
			userID = c.GetHeader("X-User-ID")
		}

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
			return
		}

		c.Set(UserContextKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves the user identity when present but lets the request
// through either way. Guest wishlist routes use it.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		userID := userFromBearer(c, secret)
		if userID == "" {
			userID = c.GetHeader("X-User-ID")
		}
		if userID != "" {
			c.Set(UserContextKey, userID)
		}
		c.Next()
	}
}

func userFromBearer(c *gin.Context, secret []byte) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id
	}
	return ""
}

func GetUserID(c *gin.Context) (string, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID has invalid type in context")
	}
	return userID, nil
}

// GetGuestToken returns the guest wishlist token, if the client sent one.
func GetGuestToken(c *gin.Context) string {
	return c.GetHeader(GuestTokenHeader)
}
