package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"grievancedesk-backend/repository"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the lifetime of an issued admin session token
const tokenTTL = 72 * time.Hour

// AuthHandler verifies admin credentials and issues session tokens.
// Credentials live server-side as bcrypt hashes; the client only ever
// holds the signed token.
type AuthHandler struct {
	adminRepo repository.AdminRepository
	jwtSecret []byte
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(adminRepo repository.AdminRepository, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{adminRepo: adminRepo, jwtSecret: jwtSecret}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Pin   string `json:"pin" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and PIN are required"})
		return
	}

	admin, err := h.adminRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("Error looking up admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PinHash), []byte(req.Pin)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.generateToken(admin.ID.String(), admin.Email)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// generateToken mints an HS256 session token for the admin
func (h *AuthHandler) generateToken(adminID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iss":   "grievancedesk-backend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
