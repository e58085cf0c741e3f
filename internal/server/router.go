package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cinecircle/cinecircle/internal/auth"
	"github.com/cinecircle/cinecircle/internal/cineboards"
	"github.com/cinecircle/cinecircle/internal/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsContextKey = "cinecircle_claims"

var (
	errMissingAuthService   = errors.New("auth service dependency required")
	errMissingBoardsService = errors.New("cineboards service dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// Dependencies wires the services behind the HTTP surface.
type Dependencies struct {
	AuthService   *auth.Service
	BoardsService *cineboards.Service
	Logger        *zap.Logger
	Version       string
	StartedAt     time.Time
}

// NewHTTPHandler assembles the gin router for the CineCircle API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.AuthService == nil {
		return nil, errMissingAuthService
	}
	if deps.BoardsService == nil {
		return nil, errMissingBoardsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	startedAt := deps.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		authService:   deps.AuthService,
		boardsService: deps.BoardsService,
		logger:        logger,
		version:       deps.Version,
		startedAt:     startedAt,
	}

	api := router.Group("/api")
	api.GET("/health", handler.handleHealth)
	api.POST("/auth/login", handler.handleLogin)
	api.POST("/auth/register", handler.handleRegister)
	api.POST("/auth/validate-token", handler.handleValidateToken)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.GET("/auth/profile", handler.handleGetProfile)
	protected.PUT("/auth/profile", handler.handleUpdateProfile)
	protected.POST("/cineboards", handler.handleCreateBoard)
	protected.GET("/cineboards", handler.handleListBoards)
	protected.GET("/cineboards/:id", handler.handleGetBoard)
	protected.PUT("/cineboards/:id", handler.handleUpdateBoard)
	protected.DELETE("/cineboards/:id", handler.handleDeleteBoard)
	protected.POST("/cinelinks", handler.handleCreateRecommendation)
	protected.GET("/cinelinks", handler.handleListRecommendations)

	admin := protected.Group("/admin")
	admin.Use(handler.requireRole(users.RoleAdmin))
	admin.GET("/users/:id", handler.handleAdminGetUser)

	return router, nil
}

type httpHandler struct {
	authService   *auth.Service
	boardsService *cineboards.Service
	logger        *zap.Logger
	version       string
	startedAt     time.Time
}

// authorizeRequest validates the bearer token and stores its claims in the
// request context.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	claims, err := h.authService.ValidateAccessToken(token)
	if err != nil {
		h.logger.Info("access token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(claimsContextKey, claims)
	c.Next()
}

// requireRole gates a route behind role-set membership. Must run after
// authorizeRequest.
func (h *httpHandler) requireRole(roles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

func sessionClaims(c *gin.Context) (auth.SessionClaims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return auth.SessionClaims{}, false
	}
	claims, ok := value.(auth.SessionClaims)
	return claims, ok
}

// respondError translates domain errors into the fixed status-code mapping.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrUserNotFound), errors.Is(err, cineboards.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cineboards.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, cineboards.ErrInvalidRecommendation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
