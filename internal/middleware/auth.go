package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/database"
	"backend/internal/models"
)

const principalKey = "principal"

// Principal is the authenticated identity attached to a request. It is
// resolved once by RequireAuth and handed to handlers as a typed value.
type Principal struct {
	ID   string
	Role string
}

// IssueToken signs a time-bounded HS256 credential carrying the user id as
// its subject claim.
func IssueToken(userID, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSubject verifies signature and expiry and returns the subject claim.
func ParseSubject(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return "", fmt.Errorf("subject claim missing")
	}
	return sub, nil
}

// RequireAuth validates the bearer credential, resolves it to an existing
// user and stores the typed principal in the context. Every failure answers
// 401 with a bearer challenge header.
func RequireAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			unauthorized(c, "missing token")
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			unauthorized(c, "invalid token")
			return
		}

		sub, err := ParseSubject(parts[1], secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			unauthorized(c, "unauthorized")
			return
		}

		userID, err := database.ParseID(sub)
		if err != nil {
			log.Println("[AUTH] [ERROR] invalid subject claim")
			unauthorized(c, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] subject does not resolve to a user")
			unauthorized(c, "unauthorized")
			return
		}

		SetPrincipal(c, Principal{ID: user.ID.Hex(), Role: user.Role})
		c.Next()
	}
}

// RequireRoles gates the request on the resolved principal's role. It must
// run after RequireAuth.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			unauthorized(c, "unauthorized")
			return
		}

		for _, role := range allowed {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		log.Printf("[AUTH] [ERROR] role %q not allowed", principal.Role)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "insufficient role",
		})
	}
}

// SetPrincipal attaches the principal to the request. RequireAuth calls it
// after resolving the user; handler tests use it in place of the full chain.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the principal resolved by RequireAuth.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
