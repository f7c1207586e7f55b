package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/middleware"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
	"github.com/roadlink/bus-booking-backend/internal/utils"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondOK(c, http.StatusCreated, "Account created", resp)
}

// Login verifies credentials and issues a token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	device := utils.ParseUserAgent(c.GetHeader("User-Agent")).Summary()

	resp, err := h.authService.Login(&req, device)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	respondOK(c, http.StatusOK, "Logged in", resp)
}

// Me returns the authenticated account
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.authService.GetUser(userCtx.UserID.String())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", user)
}
