package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/auth"
	"desadarit/internal/database"
)

// AuthHandler handles login and identity lookup for the admin panel.
type AuthHandler struct {
	db          *gorm.DB
	authService *auth.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		db:          db,
		authService: authService,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login verifies the credentials and issues a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Username and password are required")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("username", req.Username))

	var user database.User
	if err := h.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("login failed: user not found")
			Unauthorized(c, "Invalid credentials")
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "Login failed")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := h.authService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		logger.Error("generate token failed", slog.Any("error", err))
		Internal(c, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": loginUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
		},
	})
}

// Me returns the authenticated user's row, minus the password hash.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.IdentityFromContext(c)
	if !ok {
		Unauthorized(c, "Access token is required")
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "User not found")
			return
		}
		Internal(c, "Failed to get user info")
		return
	}

	Data(c, user)
}

// Logout is stateless: tokens simply run out their 24 hour expiry. The route
// exists so the admin panel has something to call.
func (h *AuthHandler) Logout(c *gin.Context) {
	Message(c, "Logout successful")
}
