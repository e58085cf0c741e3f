package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/cinecircle/cinecircle/internal/auth"
	"github.com/cinecircle/cinecircle/internal/users"
	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Token string `json:"token"`
}

type registerPayload struct {
	ClerkID     string `json:"clerkId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type authResponsePayload struct {
	User        *users.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

type validateTokenPayload struct {
	Token string `json:"token"`
}

type sessionPayload struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Status   string `json:"status"`
	ExpireAt int64  `json:"expireAt,omitempty"`
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), request.Token)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponsePayload{User: result.User, AccessToken: result.AccessToken})
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var request registerPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if strings.TrimSpace(request.ClerkID) == "" || strings.TrimSpace(request.Email) == "" || strings.TrimSpace(request.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clerkId, email and username are required"})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), auth.RegisterRequest{
		ClerkID:     request.ClerkID,
		Email:       request.Email,
		Username:    request.Username,
		DisplayName: request.DisplayName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponsePayload{User: result.User, AccessToken: result.AccessToken})
}

func (h *httpHandler) handleGetProfile(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var patch users.ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), claims.Subject, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleValidateToken(c *gin.Context) {
	var request validateTokenPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	session, err := h.authService.ValidateSessionToken(c.Request.Context(), request.Token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := sessionPayload{
		ID:     session.ID,
		UserID: session.UserID,
		Status: session.Status,
	}
	if !session.ExpireAt.IsZero() {
		payload.ExpireAt = session.ExpireAt.UnixMilli()
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "session": payload})
}

func (h *httpHandler) handleAdminGetUser(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime_s":  int64(time.Since(h.startedAt).Seconds()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}
