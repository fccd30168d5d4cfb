package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const tokenTTL = 72 * time.Hour

// AdminLoader resolves the admin named in a token.
type AdminLoader interface {
	GetAdminByID(ctx context.Context, id int) (*model.Admin, error)
}

// signs a token embedding adminID in the “sub” claim.
func GenerateJWT(adminID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": adminID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// verifies the JWT and returns the admin ID.
func parseToken(tokenString, secret string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid sub claim")
	}
	return int(sub), nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
		"status":  http.StatusUnauthorized,
		"name":    "UnauthorizedError",
		"message": message,
		"details": gin.H{},
	}})
}

// checks “Authorization: Bearer <token>”, verifies it, loads the admin, and sets it in context.
func JWTMiddleware(secret string, admins AdminLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing auth header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid auth header")
			return
		}

		adminID, err := parseToken(parts[1], secret)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		admin, err := admins.GetAdminByID(c.Request.Context(), adminID)
		if err != nil || admin == nil {
			abortUnauthorized(c, "admin not found")
			return
		}
		c.Set(currentAdminKey, admin)
		c.Next()
	}
}
