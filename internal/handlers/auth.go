package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bbyte-app/backend/internal/auth"
	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// AuthHandlers wraps the auth service for HTTP registration, login and the
// bearer-token middleware.
type AuthHandlers struct {
	service *auth.Service
}

// NewAuthHandlers creates auth handlers backed by the given service.
func NewAuthHandlers(service *auth.Service) *AuthHandlers {
	return &AuthHandlers{service: service}
}

// Register creates a new account with an empty profile
// POST /api/v1/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Register(req)
	if err != nil {
		switch err {
		case auth.ErrUserExists:
			util.RespondBadRequest(c, "email already registered")
		case auth.ErrUsernameExists:
			util.RespondBadRequest(c, "username already taken")
		default:
			util.RespondInternalError(c, "Failed to register user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with email and password
// POST /api/v1/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(req)
	if err != nil {
		if err == auth.ErrInvalidCredentials || err == auth.ErrUserNotFound {
			util.RespondUnauthorized(c, "invalid email or password")
			return
		}
		util.RespondInternalError(c, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user with profile and website urls
// GET /api/v1/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AuthMiddleware validates the bearer token and loads the user row into the
// request context under "user_id" and "user".
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "no token provided")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, err := h.service.ValidateToken(token)
		if err != nil {
			util.RespondUnauthorized(c, "invalid token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.Preload("Profile").Preload("WebsiteURLs").First(&user, "id = ?", userID).Error; err != nil {
			util.RespondUnauthorized(c, "user not found")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", &user)
		c.Next()
	}
}
