package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/database"
	"backend/internal/middleware"
	"backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest carries a single identifier matched against both email and
// phone.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a buyer account. Email and phone must each be unique;
// duplicates answer 409 and insert nothing.
func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		phone := strings.TrimSpace(req.Phone)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{
			"$or": []bson.M{
				{"email": email},
				{"phone": phone},
			},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] register lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] register duplicate email or phone:", email)
			respondWithError(c, http.StatusConflict, route, errConflict, "user with this email or phone already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			Phone:        phone,
			PasswordHash: string(hash),
			Role:         models.RoleBuyer,
			Addresses:    []models.Address{},
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, errConflict, "user with this email or phone already exists")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		user.ID = id

		accessToken, err := middleware.IssueToken(id.Hex(), user.Role, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"accessToken": accessToken,
			"tokenType":   "bearer",
			"user":        user.Response(),
		})
	}
}

// Login accepts an email or phone in the identifier field. Unknown
// identifier and wrong password are indistinguishable to the caller.
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		identifier := strings.TrimSpace(req.Email)
		loweredEmail := strings.ToLower(identifier)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{
			"$or": []bson.M{
				{"email": loweredEmail},
				{"phone": identifier},
			},
		}).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] login unknown identifier")
				respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "invalid credentials")
				return
			}
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login password mismatch")
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "invalid credentials")
			return
		}

		accessToken, err := middleware.IssueToken(user.ID.Hex(), user.Role, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken": accessToken,
			"tokenType":   "bearer",
			"user":        user.Response(),
		})
	}
}

// GetMe returns the public projection of the authenticated user.
func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, route)

		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		userID, err := database.ParseID(principal.ID)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] get me failed:", err)
			respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
			return
		}

		c.JSON(http.StatusOK, user.Response())
	}
}

// Logout acknowledges the request; tokens are stateless, the client drops
// its copy.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
	}
}
